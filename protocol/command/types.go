// Package command
// Author: momentics <momentics@gmail.com>
//
// Record type ids used on the command and to-clients rings.

package command

// Client to driver commands.
const (
	AddPublication     int32 = 0x01
	RemovePublication  int32 = 0x02
	AddSubscription    int32 = 0x04
	RemoveSubscription int32 = 0x05
	ClientKeepalive    int32 = 0x06
)

// Driver to client responses.
const (
	OnError              int32 = 0x0F01
	OnPublicationReady   int32 = 0x0F02
	OnOperationSucceeded int32 = 0x0F03
	OnNewConnection      int32 = 0x0F04
)

// TypeName returns a printable name for a command or response type id.
func TypeName(typeID int32) string {
	switch typeID {
	case AddPublication:
		return "ADD_PUBLICATION"
	case RemovePublication:
		return "REMOVE_PUBLICATION"
	case AddSubscription:
		return "ADD_SUBSCRIPTION"
	case RemoveSubscription:
		return "REMOVE_SUBSCRIPTION"
	case ClientKeepalive:
		return "CLIENT_KEEPALIVE"
	case OnError:
		return "ON_ERROR"
	case OnPublicationReady:
		return "ON_PUBLICATION_READY"
	case OnOperationSucceeded:
		return "ON_OPERATION_SUCCEEDED"
	case OnNewConnection:
		return "ON_NEW_CONNECTION"
	default:
		return "UNKNOWN"
	}
}
