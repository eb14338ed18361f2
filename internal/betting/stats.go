package betting

import (
	"github.com/radieske/party-bet-platform/pkg/contracts/events"
)

// ComputeStats deriva os contadores globais do conjunto completo de apostas.
// Recalculado do zero a cada mutação; correção acima de micro-eficiência,
// a escala esperada é de dezenas a poucas centenas de apostas.
func ComputeStats(bets []Bet, totalUsers int) events.Stats {
	st := events.Stats{TotalUsers: totalUsers}
	for i := range bets {
		switch bets[i].Status {
		case StatusOpen:
			st.OpenBets++
		case StatusAccepted:
			st.ActiveBets++
		case StatusResolved, StatusCompleted:
			st.ResolvedBets++
		}
	}
	return st
}

// UserStats são os contadores individuais expostos no perfil do usuário.
type UserStats struct {
	Created     int `json:"created"`
	Accepted    int `json:"accepted"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Outstanding int `json:"outstanding"`
}

// ComputeUserStats deriva os contadores de um usuário a partir das apostas em
// que ele participa. Apostas canceladas não contam como criadas.
func ComputeUserStats(userID string, bets []Bet) UserStats {
	var st UserStats
	for i := range bets {
		b := &bets[i]
		if b.CreatorID == userID && b.Status != StatusCancelled {
			st.Created++
		}
		if b.AcceptorID == userID {
			st.Accepted++
		}
		if b.WinnerID == userID {
			st.Wins++
		}
		if b.LoserID == userID {
			st.Losses++
			if b.Status == StatusResolved {
				st.Outstanding++
			}
		}
	}
	return st
}
