package routes

import (
	"database/sql"
	"errors"
	"time"

	"ferim-server/models"
	"ferim-server/policy"
	"ferim-server/services"
	"ferim-server/storage"
	"ferim-server/utils"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

var (
	errPropertyNotFound = errors.New("property not found")
	errDatesConflict    = errors.New("reservation dates conflict")
)

type CreateReservationInput struct {
	PropertyID uint      `json:"propertyID" validate:"required"`
	StartDate  time.Time `json:"startDate" validate:"required"`
	EndDate    time.Time `json:"endDate" validate:"required"`
}

func CreateReservation(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)
	actor := policy.Actor{ID: claims.ID, Role: claims.Role}

	if !policy.Allowed(actor, policy.ActionCreateReservation, nil) {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreateReservationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !input.StartDate.Before(input.EndDate) {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "startDate must be before endDate", ctx)
		return
	}

	var reservation models.Reservation
	var property models.Property

	// The conflict check and the insert run in one serializable transaction
	// so concurrent requests for the same property cannot both pass the
	// check.
	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		propertyQuery := tx.Where("id = ?", input.PropertyID).Limit(1).Find(&property)
		if propertyQuery.Error != nil {
			return propertyQuery.Error
		}
		if propertyQuery.RowsAffected == 0 {
			return errPropertyNotFound
		}

		// Half-open intervals [start, end): a candidate conflicts with an
		// active reservation when s < e' and s' < e.
		var conflicts int64
		conflictQuery := tx.Model(&models.Reservation{}).
			Where("property_id = ? AND status IN ?", input.PropertyID, models.ActiveReservationStatuses).
			Where("start_date < ? AND ? < end_date", input.EndDate, input.StartDate).
			Count(&conflicts)
		if conflictQuery.Error != nil {
			return conflictQuery.Error
		}
		if conflicts > 0 {
			return errDatesConflict
		}

		reservation = models.Reservation{
			PropertyID: property.ID,
			TenantID:   claims.ID,
			OwnerID:    property.OwnerID,
			StartDate:  input.StartDate,
			EndDate:    input.EndDate,
			Status:     models.ReservationPending,
		}
		return tx.Create(&reservation).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	switch {
	case txErr == nil:
	case errors.Is(txErr, errPropertyNotFound):
		utils.CreateError(iris.StatusNotFound, "Not Found", "Property not found", ctx)
		return
	case errors.Is(txErr, errDatesConflict) || isSerializationFailure(txErr):
		utils.CreateError(iris.StatusConflict, "Conflict", "The property is already reserved for the selected dates", ctx)
		return
	default:
		utils.CreateInternalServerError(ctx)
		return
	}

	// Re-fetch with associations; on failure the tx copy is returned as-is.
	var created models.Reservation
	if err := storage.DB.Preload("Property").Preload("Owner").First(&created, reservation.ID).Error; err == nil {
		reservation = created
	}

	go services.NewMailer().SendReservationRequestToOwner(&reservation, &property)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&reservation)
}

// isSerializationFailure reports whether postgres aborted the transaction
// because a concurrent booking touched the same rows (SQLSTATE 40001).
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}

func GetTenantReservations(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var reservations []models.Reservation
	res := storage.DB.Preload("Property").Preload("Owner").
		Where("tenant_id = ?", claims.ID).
		Order("created_at DESC").
		Find(&reservations)

	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(reservations)
}

func GetOwnerReservations(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var reservations []models.Reservation
	res := storage.DB.Preload("Property").Preload("Tenant").
		Where("owner_id = ?", claims.ID).
		Order("created_at DESC").
		Find(&reservations)

	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(reservations)
}

type UpdateReservationStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending accepted rejected"`
}

func UpdateReservationStatus(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input UpdateReservationStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	status := models.ReservationStatus(input.Status)
	if !status.Valid() {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid reservation status. Must be pending, accepted or rejected.", ctx)
		return
	}

	var reservation models.Reservation
	reservationQuery := storage.DB.Preload("Property").Where("id = ?", id).Limit(1).Find(&reservation)
	if reservationQuery.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if reservationQuery.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Reservation not found", ctx)
		return
	}

	actor := policy.Actor{ID: claims.ID, Role: claims.Role}
	if !policy.Allowed(actor, policy.ActionTransitionReservation, &reservation) {
		utils.CreateForbidden(ctx)
		return
	}

	before := reservation.Status
	reservation.Status = status
	if err := storage.DB.Save(&reservation).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "reservation.status", "reservation", reservation.ID,
		iris.Map{"status": before}, iris.Map{"status": status})

	go services.NewMailer().SendReservationStatusToTenant(&reservation)

	ctx.JSON(&reservation)
}
