// Package questionnaire implements the parent questionnaire subsystem: the
// commitment scoring engine and the persistence and HTTP layers around it.
//
// Scoring maps the attendance frequency answer through a fixed phrase table
// to a score of 0 to 5, buckets it into a category (high, moderate, low) and
// a traffic light flag (green, amber, red), then evaluates five independent
// cross-field inconsistency rules. Any triggered rule forces the final flag
// to amber. The derived fields are recomputed server-side on every create
// and update; clients can never set them directly.
package questionnaire
