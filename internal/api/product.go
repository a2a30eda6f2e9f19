package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"affiliate-backend/internal/affiliate"
)

func CreateProduct(c *gin.Context) {
	app := c.MustGet("app").(*affiliate.App)
	var in affiliate.CreateProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := app.Svc.CreateProduct(in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func GetProducts(c *gin.Context) {
	app := c.MustGet("app").(*affiliate.App)
	products, err := app.Svc.ActiveProducts()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}
