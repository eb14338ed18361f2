package dto

import (
	"github.com/radieske/party-bet-platform/internal/betting"
	"github.com/radieske/party-bet-platform/pkg/contracts/events"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type BetListResponse struct {
	Bets []events.BetSnapshot `json:"bets"`
}

type LeaderboardResponse struct {
	Leaderboard []events.LeaderboardEntry `json:"leaderboard"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

type UserProfileResponse struct {
	User  UserResponse      `json:"user"`
	Stats betting.UserStats `json:"stats"`
}

type DeleteBetResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}
