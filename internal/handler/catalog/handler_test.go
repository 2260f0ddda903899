package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipperline/barbershop-api/internal/model"
	"github.com/clipperline/barbershop-api/internal/repository"
	catalogService "github.com/clipperline/barbershop-api/internal/service/catalog"
)

type fakeCategoryRepo struct {
	categories []*model.Category
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *model.Category) error {
	f.categories = append(f.categories, category)
	return nil
}

func (f *fakeCategoryRepo) Get(_ context.Context, id uuid.UUID) (*model.Category, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCategoryRepo) List(_ context.Context, categoryType model.CategoryType) ([]*model.Category, error) {
	var out []*model.Category
	for _, c := range f.categories {
		if categoryType == "" || c.Type == categoryType {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeServiceRepo struct{}

func (f *fakeServiceRepo) Create(_ context.Context, _ *model.Service) error { return nil }

func (f *fakeServiceRepo) Get(_ context.Context, _ uuid.UUID) (*model.Service, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeServiceRepo) List(_ context.Context, _ *uuid.UUID) ([]*model.Service, error) {
	return nil, nil
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	repo := &fakeCategoryRepo{categories: []*model.Category{
		{Base: model.Base{ID: uuid.New()}, Name: "Haircuts", Type: model.CategoryTypeService},
		{Base: model.Base{ID: uuid.New()}, Name: "Pomades", Type: model.CategoryTypeProduct},
	}}
	h := NewHandler(catalogService.NewService(repo, &fakeServiceRepo{}))

	r := gin.New()
	h.RegisterRoutes(r.Group("/"))
	return r
}

func listCategories(t *testing.T, r *gin.Engine, url string) (int, []*model.Category) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	r.ServeHTTP(w, req)

	var body struct {
		Status string            `json:"status"`
		Data   []*model.Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body.Data
}

func TestListCategoriesReturnsAllWithoutType(t *testing.T) {
	r := setupRouter()

	code, categories := listCategories(t, r, "/categories")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, categories, 2)

	names := []string{categories[0].Name, categories[1].Name}
	assert.Contains(t, names, "Haircuts")
	assert.Contains(t, names, "Pomades")
}

func TestListCategoriesFiltersByType(t *testing.T) {
	r := setupRouter()

	code, categories := listCategories(t, r, "/categories?type=product")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, categories, 1)
	assert.Equal(t, "Pomades", categories[0].Name)

	code, categories = listCategories(t, r, "/categories/service")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, categories, 1)
	assert.Equal(t, "Haircuts", categories[0].Name)
}

func TestListCategoriesRejectsUnknownType(t *testing.T) {
	r := setupRouter()

	code, _ := listCategories(t, r, "/categories?type=bogus")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = listCategories(t, r, "/categories/bogus")
	assert.Equal(t, http.StatusBadRequest, code)
}
