// Package catalog отдает каталог пакетов.
package catalog

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/bukafresh-client/internal/catalog"
	"github.com/magabrotheeeer/bukafresh-client/internal/http/response"
)

// List godoc
// @Summary Каталог пакетов
// @Tags Catalog
// @Produce  json
// @Success 200 {object} response.Response
// @Router /packages [get]
func List(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.StatusOKWithData(catalog.Packages()))
}

// Read godoc
// @Summary Пакет по имени
// @Tags Catalog
// @Produce  json
// @Param name path string true "Имя пакета"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /packages/{name} [get]
func Read(w http.ResponseWriter, r *http.Request) {
	p, ok := catalog.Find(chi.URLParam(r, "name"))
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("package not found"))
		return
	}
	render.JSON(w, r, response.StatusOKWithData(p))
}
