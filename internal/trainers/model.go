package trainers

// Trainer is a personal trainer in the gym's directory.
type Trainer struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Experience     int    `json:"experience"` // years
	ProfilePicURL  string `json:"profile_pic_url,omitempty"`
}
