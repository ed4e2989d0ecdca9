package domain

// Profile remembers how to reach a peer so the flags need not be retyped.
type Profile struct {
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	Port      int    `json:"port,omitempty"`
	Transport string `json:"transport,omitempty"`
	Framing   string `json:"framing,omitempty"`
	KDF       string `json:"kdf,omitempty"`
}
