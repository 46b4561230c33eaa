package routes

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"ferim-server/models"
	"ferim-server/policy"
	"ferim-server/storage"
	"ferim-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func GetProperties(ctx iris.Context) {
	var properties []models.Property
	res := storage.DB.Preload("Owner").Order("created_at DESC").Find(&properties)

	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(properties)
}

func GetProperty(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var property models.Property
	res := storage.DB.Preload("Owner").Where("id = ?", id).Limit(1).Find(&property)

	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if res.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
		return
	}

	ctx.JSON(&property)
}

func CreateProperty(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	if !policy.Allowed(policy.Actor{ID: claims.ID, Role: claims.Role}, policy.ActionCreateProperty, nil) {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreatePropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !models.PropertyType(input.Type).Valid() {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid property type. Must be apartment, house, room or other.", ctx)
		return
	}

	images := uploadBase64Images(input.Images, fmt.Sprintf("properties/%d/%d", claims.ID, time.Now().UnixMilli()))
	imagesJSON, _ := json.Marshal(images)

	property := models.Property{
		OwnerID:     claims.ID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Type:        models.PropertyType(input.Type),
		Lat:         input.Location.Lat,
		Lng:         input.Location.Lng,
		Address:     input.Location.Address,
		Images:      imagesJSON,
	}

	if err := storage.DB.Create(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var created models.Property
	if err := storage.DB.Preload("Owner").First(&created, property.ID).Error; err == nil {
		property = created
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&property)
}

type DeletePropertyImageInput struct {
	PublicID string `json:"publicID" validate:"required"`
}

// DeletePropertyImage removes one image from a property the caller owns and
// destroys the stored copy.
func DeletePropertyImage(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input DeletePropertyImageInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var property models.Property
	propertyQuery := storage.DB.Where("id = ?", id).Limit(1).Find(&property)
	if propertyQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if propertyQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
		return
	}

	if !policy.Allowed(policy.Actor{ID: claims.ID, Role: claims.Role}, policy.ActionDeletePropertyImage, &property) {
		utils.CreateForbidden(ctx)
		return
	}

	var images []models.Image
	if len(property.Images) > 0 {
		if err := json.Unmarshal(property.Images, &images); err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	kept := make([]models.Image, 0, len(images))
	found := false
	for _, image := range images {
		if image.PublicID == input.PublicID {
			found = true
			continue
		}
		kept = append(kept, image)
	}
	if !found {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Image not found on property", ctx)
		return
	}

	imagesJSON, _ := json.Marshal(kept)
	property.Images = imagesJSON
	if err := storage.DB.Save(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	go func(publicID string) {
		if err := storage.DeleteImage(publicID); err != nil {
			log.Printf("image delete failed: %v", err)
		}
	}(input.PublicID)

	ctx.JSON(&property)
}

// uploadBase64Images pushes raw base64 payloads to Cloudinary and passes
// through references that were uploaded already. Failed uploads are logged
// and skipped.
func uploadBase64Images(inputs []ImageInput, publicIDPrefix string) []models.Image {
	images := make([]models.Image, 0, len(inputs))
	for i, in := range inputs {
		if in.URL != "" {
			images = append(images, models.Image{PublicID: in.PublicID, URL: in.URL})
			continue
		}
		if in.Base64 == "" {
			continue
		}
		image, err := storage.UploadBase64Image(in.Base64, fmt.Sprintf("%s_%d", publicIDPrefix, i))
		if err != nil {
			log.Printf("image upload failed: %v", err)
			continue
		}
		images = append(images, image)
	}
	return images
}

type LocationInput struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address" validate:"required"`
}

type ImageInput struct {
	PublicID string `json:"publicID"`
	URL      string `json:"url"`
	Base64   string `json:"base64"`
}

type CreatePropertyInput struct {
	Title       string        `json:"title" validate:"required,max=256"`
	Description string        `json:"description" validate:"required"`
	Price       float64       `json:"price" validate:"min=0"`
	Type        string        `json:"type" validate:"required"`
	Location    LocationInput `json:"location" validate:"required"`
	Images      []ImageInput  `json:"images"`
}
