package domain

// Separator joins the text fields of every handshake message and chat envelope.
// It must never occur inside identifiers, nonces or message payloads.
const Separator = "@spliter"

// DefaultPort is used when no port is configured.
const DefaultPort = 50007
