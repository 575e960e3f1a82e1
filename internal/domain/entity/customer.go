package entity

// Customer is a read-only snapshot of a social-platform profile. The
// source of truth is the backend; the console never writes it back.
type Customer struct {
	ID          string `json:"id"`
	ExternalID  string `json:"fb_id"`
	Name        string `json:"fb_name"`
	Avatar      string `json:"fb_avt"`
	DateOfBirth string `json:"fb_dob,omitempty"`
	ProfileLink string `json:"db_link,omitempty"`
	Type        string `json:"customer_type,omitempty"`
}
