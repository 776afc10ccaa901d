// Package utils provides common utility functions for the quest-sync application.
// It includes helper functions for type conversion, the best-effort side effect
// policy, and the clock abstraction used to keep time-dependent logic testable.
package utils
