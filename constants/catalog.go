package constants

// ServicePackage is one soil test offering.
type ServicePackage struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	NameHindi      string   `json:"name_hindi"`
	Price          int      `json:"price"`
	Parameters     []string `json:"parameters"`
	TurnaroundDays int      `json:"turnaround_days"`
	Description    string   `json:"description"`
	Popular        bool     `json:"popular,omitempty"`
}

type Testimonial struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Text     string `json:"text"`
	Image    string `json:"image,omitempty"`
	Rating   int    `json:"rating"`
}

type Partner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
	Type string `json:"type"` // lab, ngo, institution, energy
}

type BlogPost struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Category string   `json:"category"` // smart_farming, sustainability, energy, policy
	Date     string   `json:"date"`
	ReadTime int      `json:"read_time"`
	Image    string   `json:"image"`
	Tags     []string `json:"tags"`
}

type Stat struct {
	Label  string `json:"label"`
	Value  int    `json:"value"`
	Suffix string `json:"suffix"`
}

var ServicePackages = []ServicePackage{
	{
		ID:             "basic",
		Name:           "Basic Soil Test",
		NameHindi:      "बेसिक मिट्टी परीक्षण",
		Price:          299,
		Parameters:     []string{"pH Level", "Electrical Conductivity", "NPK (Nitrogen, Phosphorus, Potassium)"},
		TurnaroundDays: 5,
		Description:    "Essential soil health parameters for informed farming decisions",
	},
	{
		ID:             "advanced",
		Name:           "Advanced Soil Test",
		NameHindi:      "एडवांस्ड मिट्टी परीक्षण",
		Price:          599,
		Parameters:     []string{"All Basic Parameters", "Organic Carbon", "Micronutrients (Zn, Fe, Cu, Mn)", "Sulfur"},
		TurnaroundDays: 7,
		Description:    "Comprehensive analysis for optimal crop nutrition planning",
		Popular:        true,
	},
	{
		ID:             "crop_specific",
		Name:           "Crop-Specific Test",
		NameHindi:      "फसल-विशिष्ट परीक्षण",
		Price:          799,
		Parameters:     []string{"All Advanced Parameters", "Boron", "Molybdenum", "Customized Recommendations", "Fertilizer Planning"},
		TurnaroundDays: 10,
		Description:    "Tailored testing with expert recommendations for your specific crop",
	},
}

var Testimonials = []Testimonial{
	{ID: "1", Name: "राजेश कुमार", Location: "पानीपत, हरियाणा", Text: "Farmहित की सॉइल टेस्टिंग से मेरी गेहूं की पैदावार में 25% की बढ़ोतरी हुई। सटीक रिपोर्ट और आसान प्रक्रिया।", Rating: 5},
	{ID: "2", Name: "Suresh Patil", Location: "Nashik, Maharashtra", Text: "The detailed NPK analysis helped me save ₹8,000 on unnecessary fertilizers. Great service!", Rating: 5},
	{ID: "3", Name: "Gurpreet Singh", Location: "Ludhiana, Punjab", Text: "Residue sell feature is revolutionary. I earned ₹12,000 from paddy stubble that I used to burn.", Rating: 5},
	{ID: "4", Name: "Lakshmi Devi", Location: "Guntur, Andhra Pradesh", Text: "Simple mobile booking and fast reports. Even my 60-year-old father can use this platform.", Rating: 4},
}

var Partners = []Partner{
	{ID: "1", Name: "SRM University", Logo: "/partners/srm.png", Type: "institution"},
	{ID: "2", Name: "PANI Institute", Logo: "/partners/pani.png", Type: "institution"},
	{ID: "3", Name: "Green Energy Labs", Logo: "/partners/green-energy.png", Type: "energy"},
	{ID: "4", Name: "Soil Health NGO", Logo: "/partners/soil-health.png", Type: "ngo"},
}

var BlogPosts = []BlogPost{
	{
		ID:       "1",
		Title:    "Understanding NPK Ratios for Different Crops",
		Excerpt:  "Learn how to read your soil test report and apply the right fertilizers for maximum yield.",
		Category: "smart_farming",
		Date:     "2025-10-15",
		ReadTime: 5,
		Image:    "/blog/npk-guide.jpg",
		Tags:     []string{"NPK", "Fertilizers", "Soil Health"},
	},
	{
		ID:       "2",
		Title:    "Turning Crop Residue into Income: A Complete Guide",
		Excerpt:  "Stop burning stubble and start earning. How biopellet plants are changing agricultural waste management.",
		Category: "sustainability",
		Date:     "2025-10-20",
		ReadTime: 8,
		Image:    "/blog/residue-income.jpg",
		Tags:     []string{"Residue Management", "Biopellets", "Income"},
	},
	{
		ID:       "3",
		Title:    "pH Levels and Crop Performance: The Hidden Connection",
		Excerpt:  "Why soil pH matters more than you think and how to correct acidic or alkaline soils.",
		Category: "smart_farming",
		Date:     "2025-10-25",
		ReadTime: 6,
		Image:    "/blog/ph-levels.jpg",
		Tags:     []string{"pH", "Soil Science", "Crop Health"},
	},
	{
		ID:       "4",
		Title:    "Government Subsidies for Soil Testing in 2025",
		Excerpt:  "Complete breakdown of state and central schemes supporting affordable soil health testing.",
		Category: "policy",
		Date:     "2025-11-01",
		ReadTime: 7,
		Image:    "/blog/subsidies.jpg",
		Tags:     []string{"Policy", "Subsidies", "Government Schemes"},
	},
}

var Stats = []Stat{
	{Label: "Farmers Served", Value: 15000, Suffix: "+"},
	{Label: "Soil Tests Completed", Value: 25000, Suffix: "+"},
	{Label: "Partner Labs", Value: 45, Suffix: "+"},
	{Label: "Villages Covered", Value: 500, Suffix: "+"},
}

var IndianStates = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
	"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya", "Mizoram",
	"Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim", "Tamil Nadu",
	"Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand", "West Bengal",
}

var CropTypes = []string{
	"Wheat (गेहूं)", "Rice (धान)", "Maize (मक्का)", "Sugarcane (गन्ना)",
	"Cotton (कपास)", "Soybean (सोयाबीन)", "Potato (आलू)", "Onion (प्याज)",
	"Tomato (टमाटर)", "Vegetables (सब्जियां)", "Fruits (फल)", "Other (अन्य)",
}

// FindPackage looks up a service package by id.
func FindPackage(id string) (ServicePackage, bool) {
	for _, p := range ServicePackages {
		if p.ID == id {
			return p, true
		}
	}
	return ServicePackage{}, false
}

// BlogPostsByCategory returns all posts when category is empty.
func BlogPostsByCategory(category string) []BlogPost {
	if category == "" {
		return BlogPosts
	}
	out := make([]BlogPost, 0, len(BlogPosts))
	for _, p := range BlogPosts {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
