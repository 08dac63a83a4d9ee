package dto

import (
	"time"

	"github.com/yukikurage/fest-registration-api/internal/models"
	"github.com/yukikurage/fest-registration-api/internal/services"
)

type CategoryTotalDTO struct {
	Category      models.EventCategory `json:"category"`
	Registrations int                  `json:"registrations"`
	Paid          int                  `json:"paid"`
	Unpaid        int                  `json:"unpaid"`
	Refunded      int                  `json:"refunded"`
	Revenue       int64                `json:"revenue"`
}

type TrendPointDTO struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type EventRankDTO struct {
	EventID       uint64               `json:"event_id"`
	Title         string               `json:"title"`
	Category      models.EventCategory `json:"category"`
	Registrations int                  `json:"registrations"`
	Paid          int                  `json:"paid"`
	Revenue       int64                `json:"revenue"`
}

type OverviewDTO struct {
	Users         int64              `json:"users"`
	Events        int                `json:"events"`
	Registrations int                `json:"registrations"`
	Paid          int                `json:"paid"`
	Unpaid        int                `json:"unpaid"`
	Refunded      int                `json:"refunded"`
	Revenue       int64              `json:"revenue"`
	Categories    []CategoryTotalDTO `json:"categories"`
}

type StatusCountsDTO struct {
	EventID  uint64 `json:"event_id"`
	Paid     int64  `json:"paid"`
	Unpaid   int64  `json:"unpaid"`
	Refunded int64  `json:"refunded"`
}

type ExportLinkDTO struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

func ToCategoryTotalDTOs(totals []services.CategoryTotal) []CategoryTotalDTO {
	out := make([]CategoryTotalDTO, len(totals))
	for i, t := range totals {
		out[i] = CategoryTotalDTO(t)
	}
	return out
}

func ToTrendPointDTOs(points []services.TrendPoint) []TrendPointDTO {
	out := make([]TrendPointDTO, len(points))
	for i, p := range points {
		out[i] = TrendPointDTO(p)
	}
	return out
}

func ToEventRankDTOs(ranks []services.EventRank) []EventRankDTO {
	out := make([]EventRankDTO, len(ranks))
	for i, r := range ranks {
		out[i] = EventRankDTO(r)
	}
	return out
}

func ToOverviewDTO(o services.Overview) OverviewDTO {
	return OverviewDTO{
		Users:         o.Users,
		Events:        o.Events,
		Registrations: o.Registrations,
		Paid:          o.Paid,
		Unpaid:        o.Unpaid,
		Refunded:      o.Refunded,
		Revenue:       o.Revenue,
		Categories:    ToCategoryTotalDTOs(o.Categories),
	}
}

func ToStatusCountsDTO(c services.StatusCounts) StatusCountsDTO {
	return StatusCountsDTO(c)
}
