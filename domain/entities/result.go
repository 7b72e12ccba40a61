package entities

import "time"

// CommandResult pairs one device with the output (or failure) of a single
// command execution. Results are collected positionally so presentation
// order always follows the inventory, not completion order.
type CommandResult struct {
	Device  string
	Host    string
	Output  string
	Err     error
	Elapsed time.Duration
}

// Failed reports whether the execution ended in an error
func (r CommandResult) Failed() bool {
	return r.Err != nil
}
