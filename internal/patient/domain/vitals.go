package domain

import "time"

// BloodPressure is a single blood pressure reading for a patient record.
type BloodPressure struct {
	ID        string
	RecordID  string
	Systolic  int
	Diastolic int
	CreatedAt time.Time
}

// HeartRate is a single heart rate reading, in beats per minute.
type HeartRate struct {
	ID        string
	RecordID  string
	BPM       int
	CreatedAt time.Time
}

// BodyTemperature is a single body temperature reading, in degrees Celsius.
type BodyTemperature struct {
	ID        string
	RecordID  string
	Celsius   float64
	CreatedAt time.Time
}
