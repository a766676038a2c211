package models

import "time"

// RegisterRequest - регистрация пользователя
type RegisterRequest struct {
	Name     string  `json:"nome" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"senha" binding:"required,min=6"`
	Phone    *string `json:"telefone"`
	Role     string  `json:"tipoUsuario" binding:"required"`
}

// LoginRequest - вход по email/паролю
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"senha" binding:"required"`
	Role     string `json:"tipoUsuario" binding:"required"`
}

type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	User        UserProfile `json:"user"`
}

type UserProfile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nome"`
	Email     string    `json:"email"`
	Phone     *string   `json:"telefone"`
	Role      string    `json:"tipoUsuario"`
	PhotoURL  *string   `json:"fotoUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type UpdateUserRequest struct {
	Name  *string `json:"nome"`
	Phone *string `json:"telefone"`
}

// CreateReservationRequest - запрос слота игроком
type CreateReservationRequest struct {
	VenueID int64  `json:"localId" binding:"required"`
	Date    string `json:"data" binding:"required"`
	Start   string `json:"inicio" binding:"required"`
}

type ReservationResponse struct {
	ID          int64   `json:"id"`
	VenueID     int64   `json:"localId"`
	PlayerID    int64   `json:"jogadorId"`
	Date        string  `json:"data"`
	Start       string  `json:"inicio"`
	End         string  `json:"fim"`
	Status      string  `json:"status"`
	CancelledBy *string `json:"canceladoPor"`
	Amount      float64 `json:"valorPagar"`
}

// Slot statuses returned by availability.
const (
	SlotFree      = "livre"
	SlotOccupied  = "ocupado"
	SlotRequested = "solicitado"
)

type Slot struct {
	Start         string     `json:"inicio"`
	End           string     `json:"fim"`
	Status        string     `json:"status"`
	ReservationID *int64     `json:"agendamentoId,omitempty"`
	Player        *PlayerRef `json:"jogador,omitempty"`
}

type AvailabilityResponse struct {
	Closed bool   `json:"fechado"`
	Slots  []Slot `json:"slots"`
}

type FreeSlotsResponse struct {
	VenueID   int64    `json:"localId"`
	Date      string   `json:"data"`
	FreeSlots []string `json:"slotsDisponiveis"`
}

// SearchVenuesQuery - параметры поиска площадок
type SearchVenuesQuery struct {
	City       string
	Date       string
	Categories []string
	Periods    []string
}

type VenueSearchItem struct {
	ID            int64    `json:"id"`
	Name          string   `json:"nome"`
	Description   *string  `json:"descricao"`
	City          *string  `json:"cidade"`
	Address       string   `json:"endereco"`
	Number        *string  `json:"numero"`
	Category      string   `json:"tipoLocal"`
	HourlyPrice   float64  `json:"precoHora"`
	Photos        []string `json:"fotos"`
	AverageRating *float64 `json:"mediaAvaliacoes"`
	TotalRatings  int      `json:"totalAvaliacoes"`
	FreeSlots     []string `json:"horarios"`
}

type HoursInput struct {
	Weekday int     `json:"diaSemana"`
	Open    bool    `json:"aberto"`
	Start   *string `json:"inicio"`
	End     *string `json:"fim"`
}

// VenueRequest is used for create (all required fields) and update (partial).
type VenueRequest struct {
	Name        *string       `json:"nome"`
	Description *string       `json:"descricao"`
	ZipCode     *string       `json:"cep"`
	City        *string       `json:"cidade"`
	Address     *string       `json:"endereco"`
	Number      *string       `json:"numero"`
	Category    *string       `json:"tipoLocal"`
	HourlyPrice *float64      `json:"precoHora"`
	Photos      []string      `json:"fotos"`
	Hours       *[]HoursInput `json:"horarios"`
}

type VenueDetail struct {
	Venue
	Hours         []OperatingHours `json:"horarios"`
	AverageRating *float64         `json:"mediaAvaliacoes"`
	TotalRatings  int              `json:"totalAvaliacoes"`
}

// AgendaCard - карточка бронирования в расписании игрока
type AgendaCard struct {
	ID           int64       `json:"id"`
	VenueID      int64       `json:"localId"`
	VenueName    string      `json:"localNome"`
	VenuePhoto   *string     `json:"localFotoUrl"`
	VenueAddress string      `json:"endereco"`
	Date         string      `json:"data"`
	Start        string      `json:"inicio"`
	End          string      `json:"fim"`
	Status       string      `json:"status"`
	CanRate      bool        `json:"podeAvaliar"`
	Rating       *RatingCard `json:"avaliacao"`
}

type RatingCard struct {
	ID      int64   `json:"id"`
	Score   float64 `json:"nota"`
	Comment *string `json:"comentario"`
}

type AgendaResponse struct {
	Upcoming []AgendaCard `json:"proximos"`
	History  []AgendaCard `json:"historico"`
}

type OwnerReservationItem struct {
	ID        int64     `json:"id"`
	VenueID   int64     `json:"localId"`
	VenueName string    `json:"localNome"`
	Date      string    `json:"data"`
	Start     string    `json:"inicio"`
	End       string    `json:"fim"`
	Status    string    `json:"status"`
	Amount    float64   `json:"valorPagar"`
	Player    PlayerRef `json:"jogador"`
}

type CreateRatingRequest struct {
	ReservationID int64   `json:"agendamentoId" binding:"required"`
	Score         float64 `json:"nota"`
	Comment       *string `json:"comentario"`
}

// MonthlyPlanRequest is used for create (VenueID and every field required)
// and for partial update (VenueID ignored).
type MonthlyPlanRequest struct {
	VenueID    int64    `json:"localId"`
	HolderName *string  `json:"nomeResponsavel"`
	CPF        *string  `json:"cpf"`
	Phone      *string  `json:"celular"`
	Weekday    *int     `json:"diaSemana"`
	Start      *string  `json:"horaInicio"`
	Amount     *float64 `json:"valor"`
}

type NotificationItem struct {
	ID          string             `json:"id"`
	Type        string             `json:"tipo"`
	Title       string             `json:"titulo"`
	Message     string             `json:"mensagem"`
	Read        bool               `json:"lida"`
	CreatedAt   time.Time          `json:"criadoEm"`
	Reservation *NotificationBrief `json:"agendamento"`
}

type NotificationBrief struct {
	ID         int64   `json:"id"`
	Date       *string `json:"data"`
	Start      *string `json:"inicio"`
	PlayerID   *int64  `json:"jogadorId"`
	PlayerName *string `json:"jogadorNome"`
	VenueID    *int64  `json:"localId"`
	VenueName  *string `json:"localNome"`
}

type UnreadCountResponse struct {
	Count int `json:"naoLidas"`
}

// PlayerStats - статистика игрока
type PlayerStats struct {
	CreatedAt        time.Time `json:"createdAt"`
	TotalReservas    int       `json:"totalReservas"`
	DistinctVenues   int       `json:"locaisDiferentes"`
	CancellationRate int       `json:"taxaCancelamento"`
	Behaviour        string    `json:"comportamento"`
	AverageRating    *float64  `json:"mediaAvaliacoes"`
	TotalRatings     int       `json:"totalAvaliacoes"`
}

// OwnerStats - статистика владельца
type OwnerStats struct {
	CreatedAt        time.Time `json:"createdAt"`
	TotalVenues      int       `json:"totalQuadras"`
	TotalReservas    int       `json:"totalReservas"`
	TotalRevenue     float64   `json:"totalFaturamento"`
	CancellationRate int       `json:"taxaCancelamento"`
	Behaviour        string    `json:"comportamento"`
	AverageRating    *float64  `json:"mediaAvaliacoes"`
	TotalRatings     int       `json:"totalAvaliacoes"`
}

type PlayerProfileForOwner struct {
	Player PlayerRef   `json:"jogador"`
	Stats  PlayerStats `json:"stats"`
}

type VenueOccupancy struct {
	VenueID    int64  `json:"localId"`
	VenueName  string `json:"localNome"`
	Closed     bool   `json:"fechado"`
	Occupied   int    `json:"ocupados"`
	TotalSlots int    `json:"totalSlots"`
}

type OccupancyResponse struct {
	Date   string           `json:"data"`
	Venues []VenueOccupancy `json:"locais"`
}

type PhotoResponse struct {
	URL string `json:"url"`
}
