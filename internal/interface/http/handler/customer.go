package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/bookservice/internal/application/catalog"
	"github.com/xiebiao/bookservice/internal/application/view"
	"github.com/xiebiao/bookservice/internal/interface/http/dto"
	apperrors "github.com/xiebiao/bookservice/pkg/errors"
	"github.com/xiebiao/bookservice/pkg/response"
)

// CustomerHandler 顾客HTTP处理器
type CustomerHandler struct {
	service *appcatalog.CustomerService
}

// NewCustomerHandler 创建顾客处理器
func NewCustomerHandler(service *appcatalog.CustomerService) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// GetByID 按ID查询顾客(含订单)
// @Router /api/getCustomerById [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	body, err := h.service.FindByID(c.Request.Context(), id)
	rendered(c, body, err)
}

// GetByName 按姓名查询顾客
// @Router /api/getCustomersByName [get]
func (h *CustomerHandler) GetByName(c *gin.Context) {
	body, err := h.service.FindByName(c.Request.Context(), c.Query("name"))
	rendered(c, body, err)
}

// GetAll 全部顾客
// @Router /api/getCustomers [get]
func (h *CustomerHandler) GetAll(c *gin.Context) {
	body, err := h.service.FindAll(c.Request.Context())
	rendered(c, body, err)
}

// Add 新增顾客
// @Router /api/addCustomer [post]
func (h *CustomerHandler) Add(c *gin.Context) {
	var req dto.CustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	customer, err := h.service.Add(c.Request.Context(), req.ToEntity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.IDResponse{ID: customer.ID})
}

// Update 整体更新顾客
// @Router /api/updateCustomer [post]
func (h *CustomerHandler) Update(c *gin.Context) {
	var req dto.CustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	done(c, h.service.Update(c.Request.Context(), req.ToEntity()))
}

// Delete 删除顾客(仍有订单时拒绝)
// @Router /api/deleteCustomer [get]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	done(c, h.service.Delete(c.Request.Context(), id))
}

// GenerateOrderReport 顾客订单报表
// 参数:
//   - startDate/endDate: dd.MM.yyyy,闭区间
//   - onlyCompleted: 缺省/true/false 三种模式
//
// @Router /api/generateOrderReport [get]
func (h *CustomerHandler) GenerateOrderReport(c *gin.Context) {
	var q dto.ReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	start, err := view.ParseDate(q.StartDate)
	if err != nil {
		response.Error(c, apperrors.ErrBindError.WithMessagef("Failed parse specified date: %s", q.StartDate))
		return
	}
	end, err := view.ParseDate(q.EndDate)
	if err != nil {
		response.Error(c, apperrors.ErrBindError.WithMessagef("Failed parse specified date: %s", q.EndDate))
		return
	}

	rows, err := h.service.ReportOrders(c.Request.Context(), start, end, q.OnlyCompleted)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}
