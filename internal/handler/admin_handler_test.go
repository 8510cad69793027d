package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/internal/service"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAdminService struct {
	AdminService
	uploadErr    error
	couponErr    error
	lastID       uint
	lastFilename string
	lastBody     string
	lastCoupon   models.CouponRequest
}

func (s *stubAdminService) UploadWorksheetPDF(_ context.Context, id uint, filename string, body io.Reader) (*models.Worksheet, error) {
	s.lastID = id
	s.lastFilename = filename
	raw, _ := io.ReadAll(body)
	s.lastBody = string(raw)
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	return &models.Worksheet{ID: id, PdfKey: "worksheets/1/key.pdf"}, nil
}

func (s *stubAdminService) CreateCoupon(_ context.Context, req models.CouponRequest) (*models.Coupon, error) {
	s.lastCoupon = req
	if s.couponErr != nil {
		return nil, s.couponErr
	}
	return &models.Coupon{ID: 1, Code: req.Code, DiscountPercent: req.DiscountPercent}, nil
}

func (s *stubAdminService) DeleteCoupon(_ context.Context, id uint) error {
	s.lastID = id
	return nil
}

func newAdminApp(svc *stubAdminService) *fiber.App {
	h := NewAdminHandler(svc, utils.NewValidator(), zap.NewNop())
	app := newTestApp(1, models.RoleAdmin)
	app.Post("/worksheets/:id/pdf", h.UploadWorksheetPDF)
	app.Post("/coupons", h.CreateCoupon)
	app.Delete("/coupons/:id", h.DeleteCoupon)
	return app
}

func uploadRequest(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadWorksheetPDFHandler(t *testing.T) {
	svc := &stubAdminService{}
	app := newAdminApp(svc)

	body, contentType := uploadRequest(t, "sheet.pdf", "%PDF-1.4")
	req := httptest.NewRequest(fiber.MethodPost, "/worksheets/3/pdf", body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	status, env := do(t, app, req)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "PDF uploaded", env.Message)
	assert.Equal(t, uint(3), svc.lastID)
	assert.Equal(t, "sheet.pdf", svc.lastFilename)
	assert.Equal(t, "%PDF-1.4", svc.lastBody)
}

func TestUploadWorksheetPDFHandler_Errors(t *testing.T) {
	app := newAdminApp(&stubAdminService{})
	status, env := do(t, app, httptest.NewRequest(fiber.MethodPost, "/worksheets/3/pdf", nil))
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "No file uploaded", env.Error)

	svc := &stubAdminService{uploadErr: service.ErrNotFound}
	body, contentType := uploadRequest(t, "sheet.pdf", "%PDF")
	req := httptest.NewRequest(fiber.MethodPost, "/worksheets/3/pdf", body)
	req.Header.Set(fiber.HeaderContentType, contentType)
	status, _ = do(t, newAdminApp(svc), req)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestCreateCouponHandler(t *testing.T) {
	svc := &stubAdminService{}
	app := newAdminApp(svc)

	status, _ := do(t, app, jsonRequest(t, fiber.MethodPost, "/coupons", map[string]any{"code": "SAVE10", "discount_percent": 10}))
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "SAVE10", svc.lastCoupon.Code)

	status, _ = do(t, app, jsonRequest(t, fiber.MethodPost, "/coupons", map[string]any{"code": "SAVE10", "discount_percent": 0}))
	assert.Equal(t, fiber.StatusBadRequest, status)

	svc.couponErr = service.ErrAlreadyExists
	status, _ = do(t, app, jsonRequest(t, fiber.MethodPost, "/coupons", map[string]any{"code": "SAVE10", "discount_percent": 10}))
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = do(t, app, httptest.NewRequest(fiber.MethodDelete, "/coupons/12", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, uint(12), svc.lastID)
}
