package schema

// Built-in document classes. Field sets mirror the documents the extractor is
// shipped for; descriptions are fed verbatim into the extraction prompt.

func CV() (*Definition, error) {
	experience := FieldType{Kind: KindObject, Fields: []Field{
		{Name: "position", Type: FieldType{Kind: KindString}, Description: "Job title or position"},
		{Name: "company", Type: FieldType{Kind: KindString}, Description: "Name of the company"},
		{Name: "start_date", Type: FieldType{Kind: KindString}, Description: "Start date of the position formatted as 'YYYY-MM-DD' or 'YYYY', if present"},
		{Name: "end_date", Type: FieldType{Kind: KindString}, Description: "End date of the position formatted as 'YYYY-MM-DD', 'YYYY' or 'Present', if present"},
		{Name: "description", Type: FieldType{Kind: KindString}, Description: "Additional details about the role or responsibilities"},
	}}
	education := FieldType{Kind: KindObject, Fields: []Field{
		{Name: "degree", Type: FieldType{Kind: KindString}, Description: "Academic degree earned (e.g., Bachelor's, Master's, PhD)"},
		{Name: "institution", Type: FieldType{Kind: KindString}, Description: "Name of the educational institution"},
		{Name: "year", Type: FieldType{Kind: KindString}, Description: "Year of graduation or attendance period formatted as 'YYYY', if present"},
		{Name: "field", Type: FieldType{Kind: KindString}, Description: "Field of study or major"},
	}}
	language := FieldType{Kind: KindObject, Fields: []Field{
		{Name: "language", Type: FieldType{Kind: KindString}, Description: "Name of the language"},
		{Name: "proficiency", Type: FieldType{Kind: KindString}, Description: "Proficiency level (e.g., Native, Fluent, Intermediate, Basic)"},
	}}
	profile := FieldType{Kind: KindObject, Fields: []Field{
		{Name: "network", Type: FieldType{Kind: KindString}, Description: "Name of the social network or platform (e.g., LinkedIn, GitHub)"},
		{Name: "url", Type: FieldType{Kind: KindString}, Description: "URL to the candidate's profile"},
	}}
	location := FieldType{Kind: KindObject, Fields: []Field{
		{Name: "city", Type: FieldType{Kind: KindString}, Description: "Name of the city where the candidate is located"},
		{Name: "country", Type: FieldType{Kind: KindString}, Description: "Name of the country where the candidate is located"},
		{Name: "region", Type: FieldType{Kind: KindString}, Description: "State, province, or region within the country"},
	}}

	return &Definition{
		ID:    "cv",
		Title: "Curriculum vitae / resume",
		Fields: []Field{
			{Name: "summary", Type: FieldType{Kind: KindString}, Required: true,
				Description: "High level summary of the document with relevant roles and experience. Do not use any pronouns"},
			{Name: "name", Type: FieldType{Kind: KindString}, Required: true,
				Description: "Full name of the candidate"},
			{Name: "location", Type: location, Description: "Geographic location details"},
			{Name: "email", Type: FieldType{Kind: KindString}, Description: "Primary email address for contact"},
			{Name: "phone", Type: FieldType{Kind: KindString}, Description: "Contact phone number with country code"},
			{Name: "years_experience", Type: FieldType{Kind: KindNumber},
				Description: "Total years of professional experience, fractional values allowed"},
			{Name: "profiles", Type: FieldType{Kind: KindArray, Item: &profile}, Description: "Social or professional network profiles"},
			{Name: "professional_experience", Type: FieldType{Kind: KindArray, Item: &experience},
				Description: "List of professional experience entries"},
			{Name: "education", Type: FieldType{Kind: KindArray, Item: &education},
				Description: "List of educational qualifications in reverse chronological order. Sometimes education comes under the name of formation or studies"},
			{Name: "skills", Type: FieldType{Kind: KindArray, Item: &FieldType{Kind: KindString}}, Description: "List of skills"},
			{Name: "languages", Type: FieldType{Kind: KindArray, Item: &language}, Description: "Languages spoken"},
			{Name: "certifications", Type: FieldType{Kind: KindArray, Item: &FieldType{Kind: KindString}}, Description: "Certifications obtained"},
		},
	}, nil
}

func Invoice() (*Definition, error) {
	item := FieldType{Kind: KindObject, Fields: []Field{
		{Name: "description", Type: FieldType{Kind: KindString}, Description: "Description of the item or service"},
		{Name: "quantity", Type: FieldType{Kind: KindInteger}, Description: "Quantity of the item or service"},
		{Name: "unit_price", Type: FieldType{Kind: KindNumber}, Description: "Unit price of the item or service"},
		{Name: "total", Type: FieldType{Kind: KindNumber}, Description: "Total price for the item or service"},
	}}
	return &Definition{
		ID:    "invoice",
		Title: "Invoice",
		Fields: []Field{
			{Name: "invoice_number", Type: FieldType{Kind: KindString}, Description: "Invoice number"},
			{Name: "date", Type: FieldType{Kind: KindString}, Description: "Invoice date"},
			{Name: "vendor", Type: FieldType{Kind: KindString}, Description: "Vendor or seller name"},
			{Name: "customer", Type: FieldType{Kind: KindString}, Description: "Customer or buyer name"},
			{Name: "items", Type: FieldType{Kind: KindArray, Item: &item}, Description: "List of items or services in the invoice"},
			{Name: "total_amount", Type: FieldType{Kind: KindNumber}, Description: "Total amount for the invoice"},
		},
	}, nil
}

func BankStatement() (*Definition, error) {
	tx := FieldType{Kind: KindObject, Fields: []Field{
		{Name: "date", Type: FieldType{Kind: KindString}, Description: "Date of transaction"},
		{Name: "description", Type: FieldType{Kind: KindString}, Description: "Description of transaction"},
		{Name: "amount", Type: FieldType{Kind: KindNumber}, Description: "Amount of transaction"},
		{Name: "balance", Type: FieldType{Kind: KindNumber}, Description: "Balance after transaction"},
		{Name: "transaction_type", Type: FieldType{Kind: KindString}, Description: "Type of transaction (debit/credit)"},
	}}
	period := FieldType{Kind: KindObject, Fields: []Field{
		{Name: "start_date", Type: FieldType{Kind: KindString}, Description: "Statement period start date"},
		{Name: "end_date", Type: FieldType{Kind: KindString}, Description: "Statement period end date"},
	}}
	return &Definition{
		ID:    "bank_statement",
		Title: "Bank statement",
		Fields: []Field{
			{Name: "account_holder_name", Type: FieldType{Kind: KindString}, Description: "Name of account holder"},
			{Name: "account_number", Type: FieldType{Kind: KindString}, Description: "Account number"},
			{Name: "bank_name", Type: FieldType{Kind: KindString}, Description: "Name of the bank"},
			{Name: "statement_period", Type: period, Description: "Statement period"},
			{Name: "opening_balance", Type: FieldType{Kind: KindNumber}, Description: "Opening balance"},
			{Name: "closing_balance", Type: FieldType{Kind: KindNumber}, Description: "Closing balance"},
			{Name: "currency", Type: FieldType{Kind: KindString}, Description: "Currency type"},
			{Name: "transactions", Type: FieldType{Kind: KindArray, Item: &tx}, Description: "List of transactions"},
		},
	}, nil
}

func UtilityBill() (*Definition, error) {
	usage := FieldType{Kind: KindObject, Fields: []Field{
		{Name: "type", Type: FieldType{Kind: KindString}, Description: "Type of utility (electricity, water, gas, etc.)"},
		{Name: "usage_amount", Type: FieldType{Kind: KindNumber}, Description: "Amount of usage"},
		{Name: "unit", Type: FieldType{Kind: KindString}, Description: "Unit of measurement (kWh, m3, etc.)"},
		{Name: "cost", Type: FieldType{Kind: KindNumber}, Description: "Cost for this usage"},
	}}
	period := FieldType{Kind: KindObject, Fields: []Field{
		{Name: "start_date", Type: FieldType{Kind: KindString}, Description: "Billing period start date"},
		{Name: "end_date", Type: FieldType{Kind: KindString}, Description: "Billing period end date"},
	}}
	return &Definition{
		ID:    "utility_bill",
		Title: "Utility bill",
		Fields: []Field{
			{Name: "customer_name", Type: FieldType{Kind: KindString}, Description: "Customer's name"},
			{Name: "account_number", Type: FieldType{Kind: KindString}, Description: "Account number"},
			{Name: "address", Type: FieldType{Kind: KindString}, Description: "Service address"},
			{Name: "provider_name", Type: FieldType{Kind: KindString}, Description: "Utility provider name"},
			{Name: "billing_period", Type: period, Description: "Billing period"},
			{Name: "issue_date", Type: FieldType{Kind: KindString}, Description: "Date the bill was issued"},
			{Name: "due_date", Type: FieldType{Kind: KindString}, Description: "Due date for payment"},
			{Name: "total_amount_due", Type: FieldType{Kind: KindNumber}, Description: "Total amount due"},
			{Name: "usage_details", Type: FieldType{Kind: KindArray, Item: &usage}, Description: "Usage details"},
		},
	}, nil
}
