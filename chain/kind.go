package chain

// ErrorKind represents coarse strategy failure classification
type ErrorKind string

const (
	Timeout            ErrorKind = "Timeout"
	ConnectionRefused  ErrorKind = "ConnectionRefused"
	SerializationError ErrorKind = "SerializationError"
	ServiceNotFound    ErrorKind = "ServiceNotFound"
	Unauthorized       ErrorKind = "Unauthorized"
	Cancelled          ErrorKind = "Cancelled"
	// RemoteError represents exception thrown by the remote method itself
	RemoteError ErrorKind = "RemoteError"
)

// Retryable returns default next strategy retryability for the kind
func (k ErrorKind) Retryable() bool {
	switch k {
	case Timeout, ConnectionRefused, ServiceNotFound:
		return true
	}
	return false
}
