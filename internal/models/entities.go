package models

import (
	"time"

	"github.com/lib/pq"
)

// Роли пользователей
const (
	RolePlayer = "jogador"
	RoleOwner  = "locador"
)

// Категории площадок
const (
	CategorySociety = "society"
	CategoryFutsal  = "futsal"
	CategoryField   = "campo"
)

var Categories = []string{CategorySociety, CategoryFutsal, CategoryField}

// User represents the users table
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"nome" json:"nome"`
	Email        string    `db:"email" json:"email"`
	Phone        *string   `db:"telefone" json:"telefone"`
	PasswordHash string    `db:"senha_hash" json:"-"`
	Role         string    `db:"tipo_usuario" json:"tipoUsuario"`
	PhotoURL     *string   `db:"foto_url" json:"fotoUrl"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Venue represents the locais table
type Venue struct {
	ID          int64          `db:"id" json:"id"`
	Name        string         `db:"nome" json:"nome"`
	Description *string        `db:"descricao" json:"descricao"`
	ZipCode     *string        `db:"cep" json:"cep"`
	City        *string        `db:"cidade" json:"cidade"`
	Address     string         `db:"endereco" json:"endereco"`
	Number      *string        `db:"numero" json:"numero"`
	Category    string         `db:"tipo_local" json:"tipoLocal"`
	HourlyPrice float64        `db:"preco_hora" json:"precoHora"`
	Photos      pq.StringArray `db:"fotos" json:"fotos"`
	OwnerID     int64          `db:"dono_id" json:"donoId"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
}

// OperatingHours represents the horarios_funcionamento table.
// Start and End are "HH:MM" and nil when the venue is closed.
type OperatingHours struct {
	ID      int64   `db:"id" json:"id"`
	VenueID int64   `db:"local_id" json:"localId"`
	Weekday int     `db:"dia_semana" json:"diaSemana"`
	Open    bool    `db:"aberto" json:"aberto"`
	Start   *string `db:"inicio" json:"inicio"`
	End     *string `db:"fim" json:"fim"`
}

// IsOpen treats a missing record, aberto=false and a missing window alike.
func (h *OperatingHours) IsOpen() bool {
	return h != nil && h.Open && h.Start != nil && h.End != nil
}

// Reservation represents the agendamentos table
type Reservation struct {
	ID          int64     `db:"id" json:"id"`
	VenueID     int64     `db:"local_id" json:"localId"`
	PlayerID    int64     `db:"jogador_id" json:"jogadorId"`
	Date        string    `db:"data" json:"data"`
	Start       string    `db:"inicio" json:"inicio"`
	Status      string    `db:"status" json:"status"`
	CancelledBy *string   `db:"cancelado_por" json:"canceladoPor"`
	Amount      float64   `db:"valor_pagar" json:"valorPagar"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// Rating represents the avaliacoes_locais table
type Rating struct {
	ID            int64     `db:"id" json:"id"`
	VenueID       int64     `db:"local_id" json:"localId"`
	PlayerID      int64     `db:"jogador_id" json:"jogadorId"`
	ReservationID int64     `db:"agendamento_id" json:"agendamentoId"`
	Score         float64   `db:"nota" json:"nota"`
	Comment       *string   `db:"comentario" json:"comentario"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// MonthlyPlan represents the mensalidades table: a weekly slot a holder
// pays for by the month.
type MonthlyPlan struct {
	ID         int64     `db:"id" json:"id"`
	VenueID    int64     `db:"local_id" json:"localId"`
	HolderName string    `db:"nome_responsavel" json:"nomeResponsavel"`
	CPF        string    `db:"cpf" json:"cpf"`
	Phone      string    `db:"celular" json:"celular"`
	Weekday    int       `db:"dia_semana" json:"diaSemana"`
	Start      string    `db:"hora_inicio" json:"horaInicio"`
	Amount     float64   `db:"valor" json:"valor"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// Типы уведомлений
const (
	NotificationRequested = "solicitado"
	NotificationAccepted  = "aceito"
	NotificationRefused   = "recusado"
	NotificationCancelled = "cancelado"
)

// Notification represents the notificacoes table
type Notification struct {
	ID            string    `db:"id" json:"id"`
	UserID        int64     `db:"usuario_id" json:"usuarioId"`
	ReservationID *int64    `db:"agendamento_id" json:"agendamentoId"`
	Type          string    `db:"tipo" json:"tipo"`
	Title         string    `db:"titulo" json:"titulo"`
	Message       string    `db:"mensagem" json:"mensagem"`
	Read          bool      `db:"lida" json:"lida"`
	CreatedAt     time.Time `db:"criado_em" json:"criadoEm"`
}

// PlayerRef is the public identity of a player shown to owners.
type PlayerRef struct {
	ID       int64   `db:"jogador_uid" json:"id"`
	Name     string  `db:"jogador_nome" json:"nome"`
	Email    string  `db:"jogador_email" json:"email"`
	PhotoURL *string `db:"jogador_foto_url" json:"fotoUrl"`
}

// ReservationWithPlayer is an active reservation joined with its player.
type ReservationWithPlayer struct {
	Reservation
	PlayerRef
}

// PlayerReservation is a reservation joined with venue data and its rating.
type PlayerReservation struct {
	Reservation
	VenueName     string         `db:"local_nome"`
	VenueAddress  string         `db:"local_endereco"`
	VenuePhotos   pq.StringArray `db:"local_fotos"`
	RatingID      *int64         `db:"avaliacao_id"`
	RatingScore   *float64       `db:"avaliacao_nota"`
	RatingComment *string        `db:"avaliacao_comentario"`
}

// OwnerReservation is a reservation on one of the owner's venues.
type OwnerReservation struct {
	Reservation
	PlayerRef
	VenueName string `db:"local_nome"`
}

// NotificationDetail is a notification joined with reservation context.
type NotificationDetail struct {
	Notification
	ReservationDate  *string `db:"agendamento_data"`
	ReservationStart *string `db:"agendamento_inicio"`
	PlayerID         *int64  `db:"jogador_id"`
	PlayerName       *string `db:"jogador_nome"`
	VenueID          *int64  `db:"local_id"`
	VenueName        *string `db:"local_nome"`
}

// RatingSummary aggregates scores.
type RatingSummary struct {
	Count   int      `db:"total"`
	Average *float64 `db:"media"`
}

// ReservationCounters feeds the cancellation rate and activity stats.
type ReservationCounters struct {
	Confirmed      int     `db:"confirmados"`
	DistinctVenues int     `db:"locais_diferentes"`
	Decided        int     `db:"decididos"`
	CancelledBy    int     `db:"cancelados"`
	Revenue        float64 `db:"faturamento"`
}
