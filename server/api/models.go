package api

// LoginRequest is the body of a request to create a new login session.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the body of a response to a successful login or token
// refresh.
type LoginResponse struct {
	Token     string `json:"token"`
	AccountID string `json:"account_id"`
}

// AccountModel is the JSON representation of an account entity.
type AccountModel struct {
	URI            string `json:"uri,omitempty"`
	ID             string `json:"id,omitempty"`
	Username       string `json:"username"`
	Password       string `json:"password,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLogoutTime string `json:"last_logout_time,omitempty"`
	LastLoginTime  string `json:"last_login_time,omitempty"`
}

// RuleSpecModel is the JSON representation of a single grammar rule.
type RuleSpecModel struct {
	LHS string `json:"lhs"`
	RHS string `json:"rhs"`
}

// GrammarModel is the JSON representation of a grammar entity.
type GrammarModel struct {
	URI          string          `json:"uri,omitempty"`
	ID           string          `json:"id,omitempty"`
	OwnerID      string          `json:"owner_id,omitempty"`
	Name         string          `json:"name"`
	Start        string          `json:"start,omitempty"`
	Rules        []RuleSpecModel `json:"rules"`
	CompiledOK   bool            `json:"compiled_ok"`
	CompiledDiag string          `json:"compiled_diag,omitempty"`
	Created      string          `json:"created,omitempty"`
	Modified     string          `json:"modified,omitempty"`
}

// RecognizeRequest is the body of a request to test a string of input
// against a stored grammar.
type RecognizeRequest struct {
	Input string `json:"input"`
}

// RecognizeResponse is the body of a response to a recognition request.
type RecognizeResponse struct {
	Input    string `json:"input"`
	Accepted bool   `json:"accepted"`
}

// InfoModel is the body of a response describing the running server.
type InfoModel struct {
	Version string `json:"version"`
}
