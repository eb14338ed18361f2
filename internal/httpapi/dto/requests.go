package dto

type RegisterUserRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type CreateBetRequest struct {
	Proposition string `json:"proposition"`
	Stake       string `json:"stake"` // texto livre: dinheiro, favor, tarefa
	CreatorSide string `json:"creatorSide"`
	UserID      string `json:"userId"`
}

// ActionRequest cobre accept/cancel/complete.
type ActionRequest struct {
	UserID string `json:"userId"`
}

type ResolveBetRequest struct {
	UserID  string `json:"userId"`
	Outcome string `json:"outcome"` // YES | NO
}
