package model

// SavedServer is one persisted server entry, restored at startup.
type SavedServer struct {
	Port        uint16 `json:"port"`
	Directory   string `json:"directory"`
	ExposeToLAN bool   `json:"exposeToLAN"`
}
