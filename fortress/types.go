package fortress

// GenerateParams echoes the options a password was generated with.
type GenerateParams struct {
	Length         int  `json:"length"`
	IncludeSpecial bool `json:"includeSpecial"`
}

type GeneratePasswordResponse struct {
	Password  string         `json:"password"`
	Strength  string         `json:"strength"`
	Score     int            `json:"score"`
	Timestamp string         `json:"timestamp"`
	Params    GenerateParams `json:"params"`
}

type ValidatePasswordResponse struct {
	Valid     bool   `json:"valid"`
	Strength  string `json:"strength"`
	Score     int    `json:"score"`
	Feedback  string `json:"feedback"`
	Timestamp string `json:"timestamp"`
}

type EncryptResponse struct {
	EncryptedText   string `json:"encryptedText"`
	OriginalLength  int    `json:"originalLength"`
	EncryptedLength int    `json:"encryptedLength"`
	Timestamp       string `json:"timestamp"`
}

type DecryptResponse struct {
	DecryptedText string `json:"decryptedText"`
	Length        int    `json:"length"`
	Timestamp     string `json:"timestamp"`
}

// StrengthDistribution counts generated passwords per strength level.
type StrengthDistribution struct {
	Weak       int `json:"weak"`
	Medium     int `json:"medium"`
	Strong     int `json:"strong"`
	VeryStrong int `json:"very_strong"`
}

type ServerInfo struct {
	Uptime      float64            `json:"uptime"`
	MemoryUsage map[string]float64 `json:"memoryUsage"`
	NodeVersion string             `json:"nodeVersion"`
}

type StatisticsResponse struct {
	PasswordsGenerated int `json:"passwordsGenerated"`
	PasswordsValidated int `json:"passwordsValidated"`
	TextEncrypted      int `json:"textEncrypted"`
	// The API spells this key "stregthDistribution".
	StrengthDistribution StrengthDistribution `json:"stregthDistribution"`
	Timestamp            string               `json:"timestamp"`
	ServerInfo           ServerInfo           `json:"serverInfo"`
}

// PasswordParams are the generate-password options. Nil fields are left
// to the server's defaults.
type PasswordParams struct {
	Length  *int
	Special *bool
}

type ValidationParams struct {
	Password string
}

type EncryptionParams struct {
	Text string
}

type DecryptionParams struct {
	EncryptedText string
}
