package handler

import (
	"github.com/gin-gonic/gin"

	appcatalog "github.com/xiebiao/bookservice/internal/application/catalog"
	"github.com/xiebiao/bookservice/internal/interface/http/dto"
	"github.com/xiebiao/bookservice/pkg/response"
)

// AuthorHandler 作者HTTP处理器
type AuthorHandler struct {
	service *appcatalog.AuthorService
}

// NewAuthorHandler 创建作者处理器
func NewAuthorHandler(service *appcatalog.AuthorService) *AuthorHandler {
	return &AuthorHandler{service: service}
}

// GetByID 按ID查询作者
// @Router /api/getAuthorById [get]
func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	body, err := h.service.FindByID(c.Request.Context(), id)
	rendered(c, body, err)
}

// GetByFullName 按全名查询作者
// @Router /api/getAuthorsByFullName [get]
func (h *AuthorHandler) GetByFullName(c *gin.Context) {
	body, err := h.service.FindByFullName(c.Request.Context(), c.Query("fullName"))
	rendered(c, body, err)
}

// GetAll 全部作者
// @Router /api/getAuthors [get]
func (h *AuthorHandler) GetAll(c *gin.Context) {
	body, err := h.service.FindAll(c.Request.Context())
	rendered(c, body, err)
}

// Add 新增作者,返回生成的ID
// @Router /api/addAuthor [post]
func (h *AuthorHandler) Add(c *gin.Context) {
	var req dto.AuthorRequest
	if !bindJSON(c, &req) {
		return
	}
	author, err := h.service.Add(c.Request.Context(), req.ToEntity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.IDResponse{ID: author.ID})
}

// Update 整体更新作者
// @Router /api/updateAuthor [post]
func (h *AuthorHandler) Update(c *gin.Context) {
	var req dto.AuthorRequest
	if !bindJSON(c, &req) {
		return
	}
	done(c, h.service.Update(c.Request.Context(), req.ToEntity()))
}

// Delete 删除作者
// @Router /api/deleteAuthor [get]
func (h *AuthorHandler) Delete(c *gin.Context) {
	id, ok := queryID(c)
	if !ok {
		return
	}
	done(c, h.service.Delete(c.Request.Context(), id))
}
