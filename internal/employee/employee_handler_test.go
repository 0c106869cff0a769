package employee_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-onboard/internal/employee"
	employeeerrors "go-onboard/internal/employee/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeEmployeeService struct {
	createFn       func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	getAllFn       func(ctx context.Context) ([]employee.EmployeeResponse, error)
	getOptionsFn   func(ctx context.Context) ([]employee.EmployeeResponse, error)
	getByIDFn      func(ctx context.Context, id uint) (employee.EmployeeResponse, error)
	updateStatusFn func(ctx context.Context, id uint, req employee.UpdateStatusRequest) (employee.EmployeeResponse, error)
	deleteFn       func(ctx context.Context, id uint) error
}

func (f *fakeEmployeeService) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.createFn(ctx, req)
}

func (f *fakeEmployeeService) GetAll(ctx context.Context) ([]employee.EmployeeResponse, error) {
	return f.getAllFn(ctx)
}

func (f *fakeEmployeeService) GetOptions(ctx context.Context) ([]employee.EmployeeResponse, error) {
	return f.getOptionsFn(ctx)
}

func (f *fakeEmployeeService) GetByID(ctx context.Context, id uint) (employee.EmployeeResponse, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeEmployeeService) UpdateStatus(ctx context.Context, id uint, req employee.UpdateStatusRequest) (employee.EmployeeResponse, error) {
	return f.updateStatusFn(ctx, id, req)
}

func (f *fakeEmployeeService) Delete(ctx context.Context, id uint) error {
	return f.deleteFn(ctx, id)
}

func setupEmployeeRouter(svc employee.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := employee.NewHandler(svc)

	router.POST("/employees", h.Create)
	router.GET("/employees", h.GetAll)
	router.GET("/employees/:id", h.GetById)
	router.PUT("/employees/:id/status", h.UpdateStatus)
	return router
}

func TestEmployeeHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &fakeEmployeeService{
			createFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{
					ID:         7,
					Name:       req.Name,
					Email:      req.Email,
					Department: req.Department,
					Role:       req.Role,
					Status:     "pending",
				}, nil
			},
		}
		router := setupEmployeeRouter(svc)

		body, _ := json.Marshal(gin.H{
			"name":       "Ana Lopez",
			"email":      "ana@example.com",
			"department": "Eng",
			"role":       "SWE",
		})
		req := httptest.NewRequest(http.MethodPost, "/employees", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var envelope struct {
			OK   bool                      `json:"ok"`
			Data employee.EmployeeResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.True(t, envelope.OK)
		assert.Equal(t, uint(7), envelope.Data.ID)
		assert.Equal(t, "pending", envelope.Data.Status)
	})

	t.Run("missing email is rejected before the service", func(t *testing.T) {
		svc := &fakeEmployeeService{
			createFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				t.Fatal("service should not be called for invalid payload")
				return employee.EmployeeResponse{}, nil
			},
		}
		router := setupEmployeeRouter(svc)

		body, _ := json.Marshal(gin.H{"name": "Ana Lopez"})
		req := httptest.NewRequest(http.MethodPost, "/employees", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("duplicate email maps to conflict", func(t *testing.T) {
		svc := &fakeEmployeeService{
			createFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeAlreadyExists
			},
		}
		router := setupEmployeeRouter(svc)

		body, _ := json.Marshal(gin.H{
			"name":       "Ana Lopez",
			"email":      "ana@example.com",
			"department": "Eng",
			"role":       "SWE",
		})
		req := httptest.NewRequest(http.MethodPost, "/employees", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"ok":false`)
	})
}

func TestEmployeeHandler_GetAll(t *testing.T) {
	records := []employee.EmployeeResponse{
		{ID: 1, Name: "Alice", Email: "alice@example.com", Status: "active"},
		{ID: 2, Name: "Bob", Email: "bob@example.com", Status: "pending"},
		{ID: 3, Name: "Carol", Email: "carol@example.com", Status: "pending"},
	}

	svc := &fakeEmployeeService{
		getAllFn: func(ctx context.Context) ([]employee.EmployeeResponse, error) {
			return records, nil
		},
	}
	router := setupEmployeeRouter(svc)

	t.Run("status filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/employees?status=pending", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var envelope struct {
			Data []employee.EmployeeResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.Len(t, envelope.Data, 2)
	})

	t.Run("name search with pagination meta", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/employees?q=alice&page=1&page_size=10", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var envelope struct {
			Data []employee.EmployeeResponse `json:"data"`
			Meta struct {
				Total int64 `json:"total"`
				Page  int   `json:"page"`
			} `json:"meta"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
		assert.Len(t, envelope.Data, 1)
		assert.Equal(t, int64(1), envelope.Meta.Total)
		assert.Equal(t, 1, envelope.Meta.Page)
	})
}

func TestEmployeeHandler_GetById(t *testing.T) {
	t.Run("non numeric id", func(t *testing.T) {
		svc := &fakeEmployeeService{
			getByIDFn: func(ctx context.Context, id uint) (employee.EmployeeResponse, error) {
				t.Fatal("service should not be called for invalid id")
				return employee.EmployeeResponse{}, nil
			},
		}
		router := setupEmployeeRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/employees/abc", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeEmployeeService{
			getByIDFn: func(ctx context.Context, id uint) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
			},
		}
		router := setupEmployeeRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/employees/99", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEmployeeHandler_UpdateStatus(t *testing.T) {
	t.Run("unknown status value is rejected", func(t *testing.T) {
		svc := &fakeEmployeeService{
			updateStatusFn: func(ctx context.Context, id uint, req employee.UpdateStatusRequest) (employee.EmployeeResponse, error) {
				t.Fatal("service should not be called for invalid status")
				return employee.EmployeeResponse{}, nil
			},
		}
		router := setupEmployeeRouter(svc)

		body, _ := json.Marshal(gin.H{"status": "terminated"})
		req := httptest.NewRequest(http.MethodPut, "/employees/7/status", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			updateStatusFn: func(ctx context.Context, id uint, req employee.UpdateStatusRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, uint(7), id)
				return employee.EmployeeResponse{ID: id, Name: "Ana", Email: "ana@example.com", Status: req.Status}, nil
			},
		}
		router := setupEmployeeRouter(svc)

		body, _ := json.Marshal(gin.H{"status": "active"})
		req := httptest.NewRequest(http.MethodPut, "/employees/7/status", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"active"`)
	})
}
