package http

import (
	"errors"
	"net/http"

	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	msgProductAdded   = "Product added successfully"
	msgProductDeleted = "Product and associated warranty deleted successfully"

	msgListFailed   = "An error occurred while retrieving products"
	msgCreateFailed = "An error occurred"
	msgShowFailed   = "An error occurred while retrieving the product"
	msgUpdateFailed = "An error occurred while updating the product"
	msgDeleteFailed = "An error occurred while deleting the product"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Возвращает все товары вместе с гарантиями
//	@Tags			products
//	@Produce		json
//	@Success		200	{object}	ListResponse	"Список товаров"
//	@Failure		404	{object}	ListResponse	"Каталог пуст"
//	@Failure		500	{object}	ErrorResponse	"Внутренняя ошибка"
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := p.productUsecase.ListProducts(r.Context())
	if err != nil {
		if errors.Is(err, e.ErrNoProducts) {
			WriteSuccess(w, http.StatusNotFound, ListResponse{
				Message: msgNoProducts,
				Data:    []ProductResponse{},
			})
			return
		}

		p.writeError(w, r, err, msgListFailed)
		return
	}

	WriteSuccess(w, http.StatusOK, ListResponse{Data: NewProductListResponse(products)})
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создаёт товар и, если передан срок, гарантию к нему
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		ProductRequest	true	"Товар"
//	@Success		201		{object}	CreatedResponse	"Товар создан"
//	@Failure		413		{object}	ErrorResponse	"Слишком большое тело запроса"
//	@Failure		422		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		500		{object}	ErrorResponse	"Внутренняя ошибка"
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(w, r)
	if err != nil {
		p.writeError(w, r, err, msgCreateFailed)
		return
	}

	details, err := p.productUsecase.CreateProduct(r.Context(), payload)
	if err != nil {
		p.writeError(w, r, err, msgCreateFailed)
		return
	}

	WriteSuccess(w, http.StatusCreated, CreatedResponse{
		Message: msgProductAdded,
		Data:    NewProductResponse(details),
	})
}

// getProduct
//
//	@Summary		Получение товара
//	@Tags			products
//	@Produce		json
//	@Param			id	path		int				true	"ID товара"
//	@Success		200	{object}	DataResponse	"Товар"
//	@Failure		404	{object}	ErrorResponse	"Товар не найден"
//	@Failure		500	{object}	ErrorResponse	"Внутренняя ошибка"
//	@Router			/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		p.writeError(w, r, err, msgShowFailed)
		return
	}

	details, err := p.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		p.writeError(w, r, err, msgShowFailed)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Data: NewProductResponse(details)})
}

// updateProduct
//
//	@Summary		Обновление товара
//	@Description	Частично обновляет товар; переданный срок гарантии создаёт или заменяет гарантию
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"ID товара"
//	@Param			product	body		ProductRequest	false	"Изменяемые поля"
//	@Success		200		{object}	DataResponse	"Обновлённый товар"
//	@Failure		404		{object}	ErrorResponse	"Товар не найден"
//	@Failure		413		{object}	ErrorResponse	"Слишком большое тело запроса"
//	@Failure		422		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		500		{object}	ErrorResponse	"Внутренняя ошибка"
//	@Router			/products/{id} [put]
//	@Router			/products/{id} [patch]
func (p *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		p.writeError(w, r, err, msgUpdateFailed)
		return
	}

	payload, err := decodePayload(w, r)
	if err != nil {
		p.writeError(w, r, err, msgUpdateFailed)
		return
	}

	details, err := p.productUsecase.UpdateProduct(r.Context(), id, payload)
	if err != nil {
		p.writeError(w, r, err, msgUpdateFailed)
		return
	}

	WriteSuccess(w, http.StatusOK, DataResponse{Data: NewProductResponse(details)})
}

// deleteProduct
//
//	@Summary		Удаление товара
//	@Description	Удаляет товар вместе с гарантией
//	@Tags			products
//	@Produce		json
//	@Param			id	path		int				true	"ID товара"
//	@Success		200	{object}	MessageResponse	"Товар удалён"
//	@Failure		404	{object}	ErrorResponse	"Товар не найден"
//	@Failure		500	{object}	ErrorResponse	"Внутренняя ошибка"
//	@Router			/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(r)
	if err != nil {
		p.writeError(w, r, err, msgDeleteFailed)
		return
	}

	if err := p.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		p.writeError(w, r, err, msgDeleteFailed)
		return
	}

	WriteSuccess(w, http.StatusOK, MessageResponse{Message: msgProductDeleted})
}

// writeError пишет ответ с ошибкой: 4xx логируются как warn, 5xx как error.
func (p *ProductHandler) writeError(w http.ResponseWriter, r *http.Request, err error, internalMsg string) {
	code := WriteError(w, err, internalMsg)

	log := p.logger.With("request_id", middleware.GetReqID(r.Context()))
	if code >= http.StatusInternalServerError {
		log.Errorf(err, "%d %s %s", code, r.Method, r.URL.Path)
		return
	}
	log.Warnf("%d %s %s: %v", code, r.Method, r.URL.Path, err)
}
