// Package centers manages the center (tenant) records themselves.
package centers
