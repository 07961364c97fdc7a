package node

var (
	BroadcastAccepted = broadcastAccepted
	BroadcastRelays   = broadcastRelays
)
