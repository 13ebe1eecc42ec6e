package mail

type ImportSummaryData struct {
	Imported int
	Total    int
	Failed   int
}

type EmailSender struct {
	From   string
	dialer messageSender
}
