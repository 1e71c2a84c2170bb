package mail

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
}

type ReminderEmailData struct {
	OwnerName   string
	LeadName    string
	Stage       string
	NextContact string
}
