package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookservice/pkg/response"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	Author   *AuthorHandler
	Book     *BookHandler
	Customer *CustomerHandler
	Order    *OrderHandler
}

// NewHandlers 组装处理器(供wire使用)
func NewHandlers(author *AuthorHandler, book *BookHandler, customer *CustomerHandler, order *OrderHandler) *Handlers {
	return &Handlers{Author: author, Book: book, Customer: customer, Order: order}
}

// RegisterRoutes 注册/ping和/api路由
// 路由风格沿用动词式路径:查询和删除用GET + ?id=,新增和更新用POST + JSON
func RegisterRoutes(r gin.IRouter, h *Handlers) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	api := r.Group("/api")
	{
		// 作者
		api.GET("/getAuthorById", h.Author.GetByID)
		api.GET("/getAuthorsByFullName", h.Author.GetByFullName)
		api.GET("/getAuthors", h.Author.GetAll)
		api.POST("/addAuthor", h.Author.Add)
		api.POST("/updateAuthor", h.Author.Update)
		api.GET("/deleteAuthor", h.Author.Delete)

		// 图书
		api.GET("/getBookById", h.Book.GetByID)
		api.GET("/getBooksByName", h.Book.GetByName)
		api.GET("/getBooks", h.Book.GetAll)
		api.POST("/addBook", h.Book.Add)
		api.POST("/updateBook", h.Book.Update)
		api.GET("/deleteBook", h.Book.Delete)

		// 顾客
		api.GET("/getCustomerById", h.Customer.GetByID)
		api.GET("/getCustomersByName", h.Customer.GetByName)
		api.GET("/getCustomers", h.Customer.GetAll)
		api.POST("/addCustomer", h.Customer.Add)
		api.POST("/updateCustomer", h.Customer.Update)
		api.GET("/deleteCustomer", h.Customer.Delete)
		api.GET("/generateOrderReport", h.Customer.GenerateOrderReport)

		// 订单
		api.GET("/getOrderById", h.Order.GetByID)
		api.GET("/getOrders", h.Order.GetAll)
		api.POST("/addOrder", h.Order.Add)
		api.POST("/updateOrder", h.Order.Update)
		api.GET("/deleteOrder", h.Order.Delete)
		api.GET("/getOrdersByCustomerId", h.Order.GetByCustomerID)
		api.GET("/completeOrder", h.Order.Complete)
	}
}
