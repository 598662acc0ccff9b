package dbroute

// Operation kind of statement being routed
type Operation string

const (
	Write Operation = "write"
	Read  Operation = "read"
)
