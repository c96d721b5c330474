package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/bookservice/internal/application/catalog"
	"github.com/xiebiao/bookservice/internal/interface/http/dto"
	"github.com/xiebiao/bookservice/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	service *appcatalog.BookService
}

// NewBookHandler 创建图书处理器
func NewBookHandler(service *appcatalog.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// GetByID 按ID查询图书
// @Router /api/getBookById [get]
func (h *BookHandler) GetByID(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	body, err := h.service.FindByID(c.Request.Context(), id)
	rendered(c, body, err)
}

// GetByName 按书名查询图书
// @Router /api/getBooksByName [get]
func (h *BookHandler) GetByName(c *gin.Context) {
	body, err := h.service.FindByName(c.Request.Context(), c.Query("name"))
	rendered(c, body, err)
}

// GetAll 全部图书
// @Router /api/getBooks [get]
func (h *BookHandler) GetAll(c *gin.Context) {
	body, err := h.service.FindAll(c.Request.Context())
	rendered(c, body, err)
}

// Add 新增图书
// 请求体中的authors只取id:
//
//	{"name":"...","publicationYear":2000,"annotation":"...","authors":[{"id":1}]}
//
// @Router /api/addBook [post]
func (h *BookHandler) Add(c *gin.Context) {
	var req dto.BookRequest
	if !bindJSON(c, &req) {
		return
	}
	book, err := h.service.Add(c.Request.Context(), req.ToEntity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.IDResponse{ID: book.ID})
}

// Update 整体更新图书(含作者关联)
// @Router /api/updateBook [post]
func (h *BookHandler) Update(c *gin.Context) {
	var req dto.BookRequest
	if !bindJSON(c, &req) {
		return
	}
	done(c, h.service.Update(c.Request.Context(), req.ToEntity()))
}

// Delete 删除图书
// @Router /api/deleteBook [get]
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	done(c, h.service.Delete(c.Request.Context(), id))
}
