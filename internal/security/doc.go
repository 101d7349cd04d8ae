// Package security derives the posture report exposed by Engine.SecurityReport.
// It holds no state and performs no I/O.
package security
