// handlers/export_handlers.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ExportHousehold streams the household ledger as an Excel workbook
func ExportHousehold(c *gin.Context) {
	file, filename, err := svc.Export.ExportHousehold()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export household: " + err.Error()})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Transfer-Encoding", "binary")

	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file: " + err.Error()})
		return
	}
}
