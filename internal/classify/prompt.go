package classify

import "fmt"

// buildPrompt lays out the dispatch desk's cardinality rules for the model.
// The rules matter more than the model: multi-day continuous disposal and
// outstation round trips stay single, while same-day multiple drops,
// alternate-day disposal, and vehicle changes split into separate bookings.
func buildPrompt(content string) string {
	return fmt.Sprintf(`You are an expert vehicle rental booking classification agent. Analyze the content and determine if it requires SINGLE or MULTIPLE booking records.

BUSINESS RULES:

SINGLE BOOKINGS:
1. Multi-day 8HR/80KM continuous usage: consecutive days under one disposal package.
   Example: "Need car for 3 days (Mon-Wed) for local disposal" = SINGLE booking
2. Outstation multi-day trips, including round trips: inter-city travel spanning multiple days.
   Example: "Mumbai to Pune for 2 days, return on 3rd day" = SINGLE booking
3. Single drop per day (4HR/40KM): one pickup and one drop.
   Example: "Drop from office to airport tomorrow" = SINGLE booking

MULTIPLE BOOKINGS:
1. Multiple drops in the same day: two or more drop locations in a single day.
   Example: "Drop to Airport, then Hotel, then Office - all today" = 3 bookings
2. 8HR/80KM on alternate (non-consecutive) days.
   Example: "Need car on Monday, Wednesday, Friday for local use" = 3 bookings
3. Vehicle type changes during a multi-day engagement.
   Example: "Dzire for Day 1-2, Innova for Day 3-4" = 2 bookings
4. Table data showing multiple booking entries or columns.
   Example: "TABLE EXTRACTION RESULTS (4 bookings found)" = 4 bookings
   Example: "Cab 1, Cab 2, Cab 3" column headers = 3 bookings
5. Structured sections like "Booking 1:", "Booking 2:", or "first car" / "second car".

DUTY TYPE DETECTION:
- 4HR/40KM: "drop", "pickup and drop", "airport transfer", "point to point"
- 8HR/80KM: "disposal", "at disposal", "local use", "within city", "8 hours"
- Outstation: different city names, "outstation", "inter-city"

CONTENT TO ANALYZE:
%s

Return ONLY this JSON format:

{
    "detected_duty_type": "4HR/40KM|8HR/80KM|outstation|unknown",
    "detected_dates": ["2025-08-27"],
    "detected_vehicles": ["Dzire"],
    "detected_drops": ["Mumbai Airport"],
    "booking_classification": {
        "booking_type": "single|multiple",
        "booking_count": 1,
        "confidence_score": 0.0
    },
    "reasoning": "Why this classification was chosen based on the business rules"
}`, content)
}
