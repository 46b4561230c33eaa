package routes

import (
	"encoding/json"
	"fmt"
	"time"

	"ferim-server/models"
	"ferim-server/policy"
	"ferim-server/services"
	"ferim-server/storage"
	"ferim-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

type CreateMaintenanceInput struct {
	PropertyID  uint         `json:"propertyID" validate:"required"`
	Description string       `json:"description" validate:"required"`
	Type        string       `json:"type"`
	Images      []ImageInput `json:"images"`
}

func CreateMaintenanceRequest(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	actor := policy.Actor{ID: claims.ID, Role: claims.Role}

	if !policy.Allowed(actor, policy.ActionCreateMaintenance, nil) {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreateMaintenanceInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Type is optional but must be a known category when present.
	if input.Type != "" && !models.MaintenanceType(input.Type).Valid() {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid maintenance type. Must be plumbing, electrical, structural, painting or other.", ctx)
		return
	}

	var property models.Property
	propertyQuery := storage.DB.Where("id = ?", input.PropertyID).Limit(1).Find(&property)
	if propertyQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if propertyQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
		return
	}

	images := uploadBase64Images(input.Images, fmt.Sprintf("maintenance/%d/%d", claims.ID, time.Now().UnixMilli()))
	imagesJSON, _ := json.Marshal(images)

	request := models.MaintenanceRequest{
		PropertyID:   property.ID,
		ReportedByID: claims.ID,
		AssignedToID: nil,
		Description:  input.Description,
		Type:         models.MaintenanceType(input.Type),
		Status:       models.MaintenancePending,
		Images:       imagesJSON,
	}

	if err := storage.DB.Create(&request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var created models.MaintenanceRequest
	if err := storage.DB.Preload("Property").First(&created, request.ID).Error; err == nil {
		request = created
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&request)
}

func GetUserMaintenanceRequests(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var requests []models.MaintenanceRequest
	res := storage.DB.Preload("Property").Preload("AssignedTo").
		Where("reported_by_id = ?", claims.ID).
		Order("created_at DESC").
		Find(&requests)

	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(requests)
}

func GetTechnicianMaintenanceRequests(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var requests []models.MaintenanceRequest
	res := storage.DB.Preload("Property").Preload("ReportedBy").
		Where("assigned_to_id = ?", claims.ID).
		Order("created_at DESC").
		Find(&requests)

	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(requests)
}

type UpdateMaintenanceStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress resolved closed"`
}

func UpdateMaintenanceStatus(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input UpdateMaintenanceStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	status := models.MaintenanceStatus(input.Status)
	if !status.Valid() {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid maintenance status. Must be pending, in_progress, resolved or closed.", ctx)
		return
	}

	var request models.MaintenanceRequest
	requestQuery := storage.DB.Preload("Property").Where("id = ?", id).Limit(1).Find(&request)
	if requestQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if requestQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Maintenance request not found", ctx)
		return
	}

	var propertyOwnerID uint
	if request.Property != nil {
		propertyOwnerID = request.Property.OwnerID
	}

	actor := policy.Actor{ID: claims.ID, Role: claims.Role}
	resource := policy.MaintenanceResource{Request: &request, PropertyOwnerID: propertyOwnerID}
	if !policy.Allowed(actor, policy.ActionTransitionMaintenance, resource) {
		utils.CreateForbidden(ctx)
		return
	}

	now := time.Now()
	before := request.Status
	request.Status = status
	if err := request.AppendHistory(status, claims.ID, now); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := storage.DB.Save(&request).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "maintenance.status", "maintenance_request", request.ID,
		iris.Map{"status": before}, iris.Map{"status": status})

	go services.NewMailer().SendMaintenanceStatusToReporter(&request, now)

	ctx.JSON(&request)
}
