package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/bookservice/internal/application/catalog"
	"github.com/xiebiao/bookservice/internal/interface/http/dto"
	"github.com/xiebiao/bookservice/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	service *appcatalog.OrderService
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(service *appcatalog.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// GetByID 按ID查询订单(含顾客和图书)
// @Router /api/getOrderById [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	body, err := h.service.FindByID(c.Request.Context(), id)
	rendered(c, body, err)
}

// GetByCustomerID 查询顾客的全部订单
// @Router /api/getOrdersByCustomerId [get]
func (h *OrderHandler) GetByCustomerID(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	body, err := h.service.FindByCustomerID(c.Request.Context(), id)
	rendered(c, body, err)
}

// GetAll 全部订单
// @Router /api/getOrders [get]
func (h *OrderHandler) GetAll(c *gin.Context) {
	body, err := h.service.FindAll(c.Request.Context())
	rendered(c, body, err)
}

// Add 新增订单
// 请求体示例:
//
//	{"customer":{"id":1},"creationDate":"20.05.2024","books":[{"id":1},{"id":2}]}
//
// @Router /api/addOrder [post]
func (h *OrderHandler) Add(c *gin.Context) {
	var req dto.OrderRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.service.Add(c.Request.Context(), req.ToEntity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.IDResponse{ID: order.ID})
}

// Update 整体更新订单
// @Router /api/updateOrder [post]
func (h *OrderHandler) Update(c *gin.Context) {
	var req dto.OrderRequest
	if !bindJSON(c, &req) {
		return
	}
	done(c, h.service.Update(c.Request.Context(), req.ToEntity()))
}

// Delete 删除订单
// @Router /api/deleteOrder [get]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	done(c, h.service.Delete(c.Request.Context(), id))
}

// Complete 完成订单,completeDate为当天
// @Router /api/completeOrder [get]
func (h *OrderHandler) Complete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	done(c, h.service.CompleteByID(c.Request.Context(), id))
}
