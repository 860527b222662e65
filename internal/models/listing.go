package models

// NotAvailable marks a field that could not be read from the page.
const NotAvailable = "N/A"

// JobListing is one card of the search results page.
// Every field is the text as displayed; nothing is parsed or normalized.
type JobListing struct {
	Title           string `json:"job_title"`
	Company         string `json:"company_name"`
	Location        string `json:"location"`
	WorkFormat      string `json:"work_format"`
	PublicationDate string `json:"publication_date"`
	Description     string `json:"description"`
	ContractType    string `json:"contract_type"`
	WorkType        string `json:"work_type"`
	Salary          string `json:"salary"`
	URL             string `json:"url"`
}

// NewJobListing returns a listing with every field set to NotAvailable.
func NewJobListing() JobListing {
	return JobListing{
		Title:           NotAvailable,
		Company:         NotAvailable,
		Location:        NotAvailable,
		WorkFormat:      NotAvailable,
		PublicationDate: NotAvailable,
		Description:     NotAvailable,
		ContractType:    NotAvailable,
		WorkType:        NotAvailable,
		Salary:          NotAvailable,
		URL:             NotAvailable,
	}
}

// Values returns the fields in column order.
func (j JobListing) Values() []any {
	return []any{
		j.Title,
		j.Company,
		j.Location,
		j.WorkFormat,
		j.PublicationDate,
		j.Description,
		j.ContractType,
		j.WorkType,
		j.Salary,
		j.URL,
	}
}
