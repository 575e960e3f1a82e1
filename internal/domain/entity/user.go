package entity

// User is a console account as the backend reports it. Permission and
// customer-type assignment are enforced server side; the console only
// displays and edits the lists.
type User struct {
	ID            string   `json:"id"`
	Username      string   `json:"username"`
	FullName      string   `json:"fullName"`
	Avatar        string   `json:"avt"`
	Permissions   []string `json:"permissions"`
	CustomerTypes []string `json:"customer_types"`
	DateOfBirth   string   `json:"dob,omitempty"`
	Gender        string   `json:"gender,omitempty"`
	Address       string   `json:"address,omitempty"`
}
