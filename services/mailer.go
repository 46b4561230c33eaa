package services

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"ferim-server/models"
	"ferim-server/storage"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional notification mail. Sends are fired from
// goroutines by the routes; a missing MAIL configuration downgrades every
// send to a log line instead of failing the request.
type Mailer struct{}

func NewMailer() *Mailer {
	return &Mailer{}
}

func (m *Mailer) send(to, subject, body string) error {
	host := os.Getenv("MAIL_HOST")
	user := os.Getenv("MAIL_USER")
	pass := os.Getenv("MAIL_PASS")
	if host == "" || user == "" {
		log.Printf("mailer not configured, skipping mail to %s: %s", to, subject)
		return nil
	}

	port := 587
	if p, err := strconv.Atoi(os.Getenv("MAIL_PORT")); err == nil && p > 0 {
		port = p
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", user)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(host, port, user, pass)
	if err := dialer.DialAndSend(msg); err != nil {
		log.Printf("failed to send mail to %s: %v", to, err)
		return err
	}
	return nil
}

// SendReservationRequestToOwner notifies a property owner about a new
// pending reservation.
func (m *Mailer) SendReservationRequestToOwner(reservation *models.Reservation, property *models.Property) {
	var owner models.User
	if err := storage.DB.First(&owner, reservation.OwnerID).Error; err != nil {
		log.Printf("mailer: owner %d not found: %v", reservation.OwnerID, err)
		return
	}

	subject := "New reservation request"
	body := fmt.Sprintf(
		"You have a new reservation request for %s from %s to %s.",
		property.Title,
		reservation.StartDate.Format("Jan 2, 2006"),
		reservation.EndDate.Format("Jan 2, 2006"))

	m.send(owner.Email, subject, body)
}

// SendReservationStatusToTenant notifies a tenant that the owner changed the
// status of their reservation.
func (m *Mailer) SendReservationStatusToTenant(reservation *models.Reservation) {
	var tenant models.User
	if err := storage.DB.First(&tenant, reservation.TenantID).Error; err != nil {
		log.Printf("mailer: tenant %d not found: %v", reservation.TenantID, err)
		return
	}

	title := "your reservation"
	if reservation.Property != nil {
		title = fmt.Sprintf("your reservation for %s", reservation.Property.Title)
	}

	subject := "Reservation status updated"
	body := fmt.Sprintf("The status of %s is now %q.", title, reservation.Status)

	m.send(tenant.Email, subject, body)
}

// SendMaintenanceStatusToReporter notifies the user who reported a
// maintenance request that its status changed.
func (m *Mailer) SendMaintenanceStatusToReporter(request *models.MaintenanceRequest, changedAt time.Time) {
	var reporter models.User
	if err := storage.DB.First(&reporter, request.ReportedByID).Error; err != nil {
		log.Printf("mailer: reporter %d not found: %v", request.ReportedByID, err)
		return
	}

	subject := "Maintenance request updated"
	body := fmt.Sprintf(
		"Your maintenance request #%d changed to %q on %s.",
		request.ID, request.Status, changedAt.Format("Jan 2, 2006 15:04"))

	m.send(reporter.Email, subject, body)
}
