package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/meritrix/meritrix-backend/internal/models"
	"github.com/meritrix/meritrix-backend/pkg/utils"
	"go.uber.org/zap"
)

type PackageService interface {
	GetAllPackages(ctx context.Context) ([]models.AdminPackage, error)
	GetPackageByID(ctx context.Context, id uint) (*models.Package, error)
	CreatePackage(ctx context.Context, req models.PackageRequest) (*models.Package, error)
	UpdatePackage(ctx context.Context, id uint, req models.PackageRequest) (*models.Package, error)
	DeletePackage(ctx context.Context, id uint) error
}

type PackageHandler struct {
	packageService PackageService
	validator      *utils.Validator
	logger         *zap.Logger
}

func NewPackageHandler(packageService PackageService, validator *utils.Validator, logger *zap.Logger) *PackageHandler {
	return &PackageHandler{
		packageService: packageService,
		validator:      validator,
		logger:         logger,
	}
}

func (h *PackageHandler) GetAllPackages(c *fiber.Ctx) error {
	packages, err := h.packageService.GetAllPackages(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(packages, "Packages retrieved successfully"))
}

func (h *PackageHandler) GetPackage(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	pkg, err := h.packageService.GetPackageByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(pkg, "Package retrieved successfully"))
}

func (h *PackageHandler) CreatePackage(c *fiber.Ctx) error {
	var req models.PackageRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	pkg, err := h.packageService.CreatePackage(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(pkg, "Package created"))
}

func (h *PackageHandler) UpdatePackage(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req models.PackageRequest
	if err := bind(c, h.validator, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	pkg, err := h.packageService.UpdatePackage(c.UserContext(), id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(pkg, "Package updated"))
}

func (h *PackageHandler) DeletePackage(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.packageService.DeletePackage(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Package deleted"))
}
