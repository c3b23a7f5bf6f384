package mapping

// Seed tables used when no CSV mapping files are configured or a file
// fails to load. A Provider is never left without a usable table.

func seedVehicles() map[string]string {
	return map[string]string{
		"dzire":         "Swift Dzire",
		"swift dzire":   "Swift Dzire",
		"innova":        "Toyota Innova Crysta",
		"crysta":        "Toyota Innova Crysta",
		"innova crysta": "Toyota Innova Crysta",
		"ertiga":        "Maruti Ertiga",
		"swift":         "Maruti Swift",
		"maruti swift":  "Maruti Swift",
		"sedan":         "Swift Dzire",
		"suv":           "Toyota Innova Crysta",
		"hatchback":     "Maruti Swift",
	}
}

func seedCities() map[string]string {
	return map[string]string{
		"mumbai":    "Mumbai",
		"bombay":    "Mumbai",
		"delhi":     "Delhi",
		"new delhi": "Delhi",
		"ncr":       "Delhi",
		"bangalore": "Bangalore",
		"bengaluru": "Bangalore",
		"pune":      "Pune",
		"hyderabad": "Hyderabad",
		"chennai":   "Chennai",
		"madras":    "Chennai",
		"kolkata":   "Kolkata",
		"calcutta":  "Kolkata",
		"gurgaon":   "Gurgaon",
		"gurugram":  "Gurgaon",
		"noida":     "Noida",
		"faridabad": "Faridabad",
		"ghaziabad": "Ghaziabad",
	}
}

func seedOrganizations() map[string]Organization {
	return map[string]Organization{
		"accenture":     {Name: "Accenture India Ltd", BillingCategory: CategoryG2G, Approved: true},
		"tcs":           {Name: "Tata Consultancy Services", BillingCategory: CategoryG2G, Approved: true},
		"infosys":       {Name: "Infosys Limited", BillingCategory: CategoryG2G, Approved: true},
		"wipro":         {Name: "Wipro Limited", BillingCategory: CategoryG2G, Approved: true},
		"hcl":           {Name: "HCL Technologies", BillingCategory: CategoryG2G, Approved: true},
		"cognizant":     {Name: "Cognizant Technology Solutions", BillingCategory: CategoryG2G, Approved: true},
		"tech mahindra": {Name: "Tech Mahindra", BillingCategory: CategoryG2G, Approved: true},
		"capgemini":     {Name: "Capgemini India", BillingCategory: CategoryG2G, Approved: true},
		"deloitte":      {Name: "Deloitte India", BillingCategory: CategoryG2G, Approved: true},
		"pwc":           {Name: "PwC India", BillingCategory: CategoryG2G, Approved: true},
		"microsoft":     {Name: "Microsoft India", BillingCategory: CategoryG2G, Approved: true},
		"google":        {Name: "Google India", BillingCategory: CategoryG2G, Approved: true},
		"amazon":        {Name: "Amazon India", BillingCategory: CategoryG2G, Approved: true},
	}
}

func seedDispatchCenters() map[string]string {
	return map[string]string{
		"mumbai":    "Mumbai Central Dispatch",
		"delhi":     "Delhi NCR Dispatch",
		"bangalore": "Bangalore Dispatch",
		"pune":      "Pune Dispatch",
		"hyderabad": "Hyderabad Dispatch",
		"chennai":   "Chennai Dispatch",
		"kolkata":   "Kolkata Dispatch",
		"gurgaon":   "Delhi NCR Dispatch",
		"noida":     "Delhi NCR Dispatch",
	}
}

func seedDistances() map[cityPair]int {
	return map[cityPair]int{
		{"mumbai", "pune"}:         150,
		{"delhi", "gurgaon"}:       50,
		{"delhi", "noida"}:         40,
		{"mumbai", "nashik"}:       170,
		{"bangalore", "mysore"}:    150,
		{"chennai", "pondicherry"}: 160,
	}
}
