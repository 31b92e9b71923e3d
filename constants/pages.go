package constants

// Page is one logical page of the public site.
type Page struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// RequiresAuth pages redirect to login when there is no session.
	RequiresAuth bool `json:"requires_auth"`
}

const (
	PageHome      = "home"
	PageLogin     = "login"
	PageProfile   = "profile"
	PageBookTest  = "book-test"
	PageReports   = "reports"
	PageServices  = "services"
	PageEducation = "education"
	PageBlog      = "blog"
	PageAbout     = "about"
	PagePartners  = "partners"
	PageContact   = "contact"
	PageLegal     = "legal"
)

var Pages = []Page{
	{ID: PageHome, Title: "Home"},
	{ID: PageAbout, Title: "About Us"},
	{ID: PageServices, Title: "Services"},
	{ID: PageBookTest, Title: "Book Soil Test"},
	{ID: PageReports, Title: "Reports"},
	{ID: PageEducation, Title: "Education"},
	{ID: PageBlog, Title: "Blog"},
	{ID: PagePartners, Title: "Partners"},
	{ID: PageContact, Title: "Contact"},
	{ID: PageLegal, Title: "Legal"},
	{ID: PageLogin, Title: "Login"},
	{ID: PageProfile, Title: "My Profile", RequiresAuth: true},
}

// FindPage returns the registered page with the given id.
func FindPage(id string) (Page, bool) {
	for _, p := range Pages {
		if p.ID == id {
			return p, true
		}
	}
	return Page{}, false
}
