package types

type NavbarData struct {
	IsAuthenticated bool
	UserID          string
	UserEmail       string
	UserName        string
}

type NavbarDataSetter interface {
	SetNavbarData(data NavbarData)
}

type BasePageData struct {
	Title  string
	Notice string
	Error  string
	Navbar NavbarData
}

func (d *BasePageData) SetNavbarData(data NavbarData) {
	d.Navbar = data
}

type HomePageData struct {
	BasePageData
	Stats StatsData
}

type LoginPageData struct {
	BasePageData
	Mode        AuthMode
	Role        Role
	FullName    string
	Email       string
	Confirmed   bool
	FieldErrors FieldErrors
}

func (d *LoginPageData) SignUp() bool {
	return d.Mode == AuthModeSignUp
}

type ConfirmRegisterPageData struct {
	BasePageData
	Email   string
	Message string
}

type ListingFilter struct {
	Query     string
	BloodType string
}

type DonorCard struct {
	ID            string
	FullName      string
	Email         string
	Phone         string
	BloodType     string
	BornOn        string
	LastDonation  string
	RegisteredOn  string
	RegisteredAgo string
}

type RequestCard struct {
	ID             string
	PatientName    string
	HospitalName   string
	BloodType      string
	Urgency        Urgency
	UrgencyClass   string
	ContactPerson  string
	ContactPhone   string
	AdditionalInfo string
	PostedAgo      string
}

type DashboardPageData struct {
	BasePageData
	WelcomeName string

	// DonorStatus is one of the eligibility state names.
	DonorStatus      string
	DonorStatusKnown bool
	IsDonor          bool
	MyDonor          *DonorCard

	Tab                 string
	RequestFilter       ListingFilter
	DonorFilter         ListingFilter
	Requests            []*RequestCard
	Donors              []*DonorCard
	ListingsUnavailable bool

	DonorFormOpen bool
	DonorForm     DonorForm
	DonorErrors   FieldErrors

	RequestFormOpen bool
	RequestForm     BloodRequestForm
	RequestErrors   FieldErrors

	BloodTypes    []string
	UrgencyLevels []Urgency
	CountryCodes  []CountryCode
}

type ProfilePageData struct {
	BasePageData
	UserEmail        string
	DisplayName      string
	Initial          string
	DonorStatusKnown bool
	IsDonor          bool
	Donor            *DonorCard
	NameFormOpen     bool
	NameForm         DisplayNameForm
	NameErrors       FieldErrors
}
