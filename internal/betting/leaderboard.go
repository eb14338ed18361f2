package betting

import (
	"sort"

	"github.com/radieske/party-bet-platform/pkg/contracts/events"
)

// ComputeLeaderboard deriva o placar a partir das coleções completas de
// usuários e apostas. Todo usuário aparece, mesmo sem atividade.
//
// wins/losses contam apostas em que o usuário é vencedor/perdedor;
// outstanding conta derrotas em RESOLVED (reconhecidas mas não pagas; zera
// quando a aposta vira COMPLETED); total_bets conta apostas não-OPEN e
// não-CANCELLED em que o usuário participa.
//
// Ordenação: wins desc, outstanding desc e, como desempate determinístico,
// id do usuário asc.
func ComputeLeaderboard(users []User, bets []Bet) []events.LeaderboardEntry {
	entries := make([]events.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		row := events.LeaderboardEntry{UserID: u.ID, Name: u.Name}
		for i := range bets {
			b := &bets[i]
			if b.WinnerID == u.ID {
				row.Wins++
			}
			if b.LoserID == u.ID {
				row.Losses++
				if b.Status == StatusResolved {
					row.Outstanding++
				}
			}
			if b.IsParticipant(u.ID) && b.Status != StatusOpen && b.Status != StatusCancelled {
				row.TotalBets++
			}
		}
		entries = append(entries, row)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		if entries[i].Outstanding != entries[j].Outstanding {
			return entries[i].Outstanding > entries[j].Outstanding
		}
		return entries[i].UserID < entries[j].UserID
	})
	return entries
}
