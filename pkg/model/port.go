package model

// ListeningPort is one TCP socket in LISTEN state as reported by the
// system's socket enumeration command.
type ListeningPort struct {
	Port    uint16 `json:"port"`
	PID     int32  `json:"pid"`
	Process string `json:"process"`
	Address string `json:"address"` // 127.0.0.1, *, [::1]
}
