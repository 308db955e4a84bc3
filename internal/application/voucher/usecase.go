// Package voucher emite el PDF de confirmación de un pedido aprobado.
package voucher

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/Booking-api/internal/application/usecase"
	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/access"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/internal/domain/repository"
	"github.com/jhoicas/Booking-api/pkg/logger"
)

// Agency datos de la agencia impresos en la cabecera.
type Agency struct {
	Name  string
	Phone string
	Email string
}

// Document todo lo que necesita el generador. Account es nil cuando el manager no tiene cuentas.
type Document struct {
	Order       *entity.Order
	Agent       *entity.User
	Account     *entity.BankAccount
	Agency      Agency
	GeneratedAt time.Time
}

// Generator renderiza el documento a bytes PDF. Es una función pura del documento.
type Generator interface {
	Generate(doc Document) ([]byte, error)
}

// File PDF listo para descargar.
type File struct {
	Name    string
	Content []byte
}

// UseCase comprueba las precondiciones y delega el renderizado.
type UseCase struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	accounts repository.BankAccountRepository
	gen      Generator
	agency   Agency
	log      *logger.Logger
	now      func() time.Time
}

// NewUseCase construye el caso de uso del voucher.
func NewUseCase(
	orders repository.OrderRepository,
	users repository.UserRepository,
	accounts repository.BankAccountRepository,
	gen Generator,
	agency Agency,
	log *logger.Logger,
) *UseCase {
	return &UseCase{orders: orders, users: users, accounts: accounts, gen: gen, agency: agency, log: log, now: time.Now}
}

// Download genera el voucher de un pedido. Precondiciones, en este orden:
// alcance del solicitante (403), pedido aprobado (403) y campos obligatorios (400).
func (uc *UseCase) Download(ctx context.Context, r access.Requester, orderID string) (*File, error) {
	order, err := usecase.LoadOrderInScope(ctx, uc.orders, uc.users, r, orderID)
	if err != nil {
		return nil, err
	}
	if order.StatusOrder != entity.OrderApproved {
		return nil, domain.Errorf(domain.ErrForbidden, "el voucher solo está disponible para pedidos aprobados")
	}
	if missing := order.MissingVoucherFields(); len(missing) > 0 {
		details := make([]domain.FieldError, 0, len(missing))
		for _, f := range missing {
			details = append(details, domain.FieldError{Field: f, Message: "obligatorio para el voucher"})
		}
		return nil, &domain.Error{
			Kind:    domain.ErrInvalidInput,
			Message: "faltan datos para generar el voucher: " + strings.Join(missing, ", "),
			Details: details,
		}
	}

	agent, err := uc.users.GetByID(ctx, order.AgentID)
	if err != nil {
		return nil, err
	}
	var account *entity.BankAccount
	if agent != nil && agent.HasManager() {
		account, err = uc.accounts.FirstByManager(ctx, *agent.ManagerID)
		if err != nil {
			return nil, err
		}
	}

	content, err := uc.gen.Generate(Document{
		Order:       order,
		Agent:       agent,
		Account:     account,
		Agency:      uc.agency,
		GeneratedAt: uc.now(),
	})
	if err != nil {
		uc.log.Error().Err(err).Str("order_id", order.ID).Msg("fallo al generar el voucher")
		return nil, &domain.Error{Kind: domain.ErrRendering, Message: fmt.Sprintf("no se pudo generar el voucher: %v", err)}
	}
	return &File{Name: FileName(order.ReservationNumber), Content: content}, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName voucher-<reserva>.pdf con caracteres seguros para Content-Disposition.
func FileName(reservationNumber string) string {
	clean := strings.Trim(unsafeFileChars.ReplaceAllString(reservationNumber, "-"), "-")
	if clean == "" {
		clean = "reserva"
	}
	return "voucher-" + clean + ".pdf"
}
