// Package e2e runs the whole ingest and ask pipeline over a corpus of
// handbook, manual, guide and textbook sections rendered in every supported
// source format.
package e2e

import (
	"fmt"
	"strings"
)

// Topic is one section of the e2e corpus. Each topic carries a signature
// phrase that appears in its content and nowhere near as often elsewhere.
type Topic struct {
	ID      string
	Title   string
	Phrase  string
	Content string
}

// Text is the section text as it appears in generated sources.
func (t Topic) Text() string {
	return t.Title + ". " + t.Content
}

// QueryTestCase is a question and the topic whose section must be cited.
type QueryTestCase struct {
	Query       string
	TopicID     string
	Description string
}

// Corpus holds the topics and query test cases for e2e tests.
type Corpus struct {
	Topics    []Topic
	TestCases []QueryTestCase
}

// BuildCorpus returns a corpus of n topics (capped at the number of known
// topics) with query test cases targeting them.
func BuildCorpus(n int) *Corpus {
	topics := buildTopics(n)
	return &Corpus{
		Topics:    topics,
		TestCases: buildQueryTestCases(topics),
	}
}

// Topic returns the topic with the given id.
func (c *Corpus) Topic(id string) (Topic, bool) {
	for _, t := range c.Topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

// Texts returns the section text of every topic in order.
func (c *Corpus) Texts() []string {
	out := make([]string, len(c.Topics))
	for i, t := range c.Topics {
		out[i] = t.Text()
	}
	return out
}

func buildTopics(n int) []Topic {
	topics := []struct {
		title   string
		phrase  string
		content string
	}{
		{"Annual Leave", "annual leave allowance", "Full-time staff accrue twenty-five days of annual leave allowance each year. Unused days up to five carry over into the first quarter."},
		{"Sick Days", "sick day certificate", "Employees phone their manager before ten on the first morning. A sick day certificate from a doctor is needed after three consecutive absences."},
		{"Parental Leave", "parental leave weeks", "Each new parent may take sixteen parental leave weeks at full pay. The weeks can be split into two blocks within the first year."},
		{"Remote Work", "remote work stipend", "Staff working from home at least two days a week receive a monthly remote work stipend. It covers internet and a share of heating."},
		{"Expense Claims", "expense claim receipts", "Upload the expense claim receipts within thirty days of spending. Claims above five hundred euros need a director's approval."},
		{"Travel Booking", "travel booking portal", "Flights and hotels are reserved through the travel booking portal. Economy class applies to journeys shorter than six hours."},
		{"Laptop Policy", "laptop replacement cycle", "Company laptops follow a three-year laptop replacement cycle. Damaged machines go to the service desk for a loaner."},
		{"Password Rules", "password manager vault", "Every account password lives in the shared password manager vault. Passwords must be at least sixteen characters long."},
		{"Onboarding Checklist", "onboarding buddy", "Each newcomer is paired with an onboarding buddy for the first month. The buddy walks them through tools, rituals and the office."},
		{"Performance Reviews", "performance review cycle", "The performance review cycle runs twice a year, in March and September. Goals are agreed with the line manager beforehand."},
		{"Salary Bands", "salary band ladder", "Pay follows a published salary band ladder with seven levels. Promotions move a person to the next rung in April."},
		{"Pension Scheme", "pension matching contribution", "The company adds a pension matching contribution of up to six percent. Enrollment happens automatically after probation."},
		{"Health Insurance", "dental insurance coverage", "Private health plans include dental insurance coverage for partners and children. Claims are filed in the insurer's app."},
		{"Office Access", "badge access card", "A personal badge access card opens the building from seven to twenty-two. Lost cards must be reported to reception the same day."},
		{"Visitor Policy", "visitor sign-in tablet", "Guests register on the visitor sign-in tablet in the lobby. A host accompanies them at all times."},
		{"Fire Safety", "fire assembly point", "During an alarm everyone leaves by the stairs and gathers at the fire assembly point in the car park. Lifts are never used."},
		{"First Aid", "first aid kit", "A green first aid kit hangs beside every kitchen. Trained first aiders wear a yellow lanyard."},
		{"Code of Conduct", "harassment reporting hotline", "Concerns about behaviour can be raised through the anonymous harassment reporting hotline. Reports are handled by an external ombudsperson."},
		{"Whistleblowing", "whistleblower protection", "Whistleblower protection shields staff who report fraud in good faith. Retaliation is a dismissible offence."},
		{"Data Retention", "data retention schedule", "Customer records are deleted according to the data retention schedule. Invoices are kept for seven years."},
		{"Thermostat Installation", "wall plate wiring", "Switch off the boiler before connecting the wall plate wiring. The red wire goes to terminal R and the white wire to W."},
		{"Thermostat Pairing", "pairing code display", "Hold the dial for five seconds until the pairing code display appears. Enter those six digits in the mobile app."},
		{"Heating Schedule", "weekly heating schedule", "The weekly heating schedule sets comfort and eco temperatures per hour. Up to six changes per day are supported."},
		{"Away Mode", "geofence away mode", "When every phone leaves the house, geofence away mode lowers the target to sixteen degrees. It resumes as soon as someone approaches."},
		{"Battery Backup", "AA battery backup", "Two AA battery backup cells keep the clock running during power cuts. Replace them when the low battery icon blinks."},
		{"Firmware Updates", "over-the-air firmware", "Over-the-air firmware updates install overnight between two and four. The screen shows a spinning arrow while updating."},
		{"Factory Reset", "factory reset pinhole", "Press the factory reset pinhole with a paperclip for ten seconds. All schedules and Wi-Fi credentials are erased."},
		{"Error Codes", "error code E7", "Error code E7 means the boiler did not respond within a minute. Check the fuse on the boiler before calling support."},
		{"Humidity Sensor", "humidity sensor calibration", "The humidity sensor calibration runs during the first forty-eight hours. Readings may drift slightly during that window."},
		{"Warranty Terms", "two-year limited warranty", "The device carries a two-year limited warranty against manufacturing defects. Proof of purchase is required for a claim."},
		{"Lisbon Trams", "tram line 28", "Tram line 28 climbs through Alfama and Graça past the cathedral. Board early in the morning to avoid queues."},
		{"Lisbon Food", "custard tart pastel", "The famous custard tart pastel de nata is best eaten warm with cinnamon. The Belém bakery has baked them since 1837."},
		{"Porto Wine Cellars", "port wine cellar tour", "A port wine cellar tour in Vila Nova de Gaia ends with a tasting of tawny and ruby. Most cellars close at seven."},
		{"Douro Valley", "Douro river cruise", "A Douro river cruise passes terraced vineyards and quintas. Full-day trips leave from Porto's Ribeira quay."},
		{"Algarve Beaches", "sea cave kayak", "Benagil's sea cave kayak trips leave from the beach at low tide. Swimming into the cave is prohibited."},
		{"Sintra Palaces", "Pena palace gardens", "The Pena palace gardens hold exotic trees and hidden follies. Timed tickets are sold online."},
		{"Madeira Levadas", "levada hiking trail", "Each levada hiking trail follows an old irrigation channel along the cliffs. Bring a torch for the tunnels."},
		{"Azores Whales", "whale watching season", "The whale watching season around the Azores peaks between April and October. Sperm whales are seen all year."},
		{"Portuguese Trains", "Alfa Pendular train", "The Alfa Pendular train links Lisbon and Porto in under three hours. Seats must be reserved in advance."},
		{"Tipping Customs", "restaurant tipping custom", "The local restaurant tipping custom is to round up or leave five to ten percent. Service is rarely added to the bill."},
		{"Photosynthesis", "chlorophyll light absorption", "Chlorophyll light absorption peaks in the blue and red parts of the spectrum. The absorbed energy splits water and releases oxygen."},
		{"Cell Division", "mitosis spindle fibres", "During mitosis spindle fibres pull the chromatids to opposite poles. Two identical daughter cells result."},
		{"Genetics", "dominant recessive alleles", "Mendel's peas showed how dominant recessive alleles combine. A recessive trait appears only when both copies match."},
		{"Plate Tectonics", "tectonic plate boundaries", "Earthquakes cluster along tectonic plate boundaries. Plates drift a few centimetres each year."},
		{"Volcanoes", "magma chamber pressure", "Rising magma chamber pressure eventually forces an eruption. Gas content decides whether it is explosive."},
		{"Water Cycle", "evaporation condensation precipitation", "The water cycle moves through evaporation condensation precipitation and runoff. The sun powers the whole loop."},
		{"Newton's Laws", "inertia force acceleration", "Newton linked inertia force acceleration in three laws of motion. Force equals mass times acceleration."},
		{"Electric Circuits", "series parallel resistors", "Series parallel resistors combine differently. In series the resistances add, while in parallel the reciprocals add."},
		{"Magnetism", "magnetic field lines", "Magnetic field lines leave the north pole and enter the south pole. Iron filings make them visible."},
		{"Chemical Bonds", "covalent ionic bonding", "Covalent ionic bonding differ in how electrons are shared or transferred. Table salt is held together by ionic bonds."},
		{"Acids and Bases", "pH indicator paper", "A strip of pH indicator paper turns red in acid and blue in alkali. Pure water sits at seven."},
		{"Solar System", "gas giant planets", "Jupiter and Saturn are gas giant planets with dozens of moons. Their atmospheres are mostly hydrogen and helium."},
		{"Stars", "red giant phase", "A star like the sun swells into a red giant phase near the end of its life. Its outer layers later drift off as a nebula."},
		{"Evolution", "natural selection pressure", "Natural selection pressure favours traits that improve survival. Over generations populations adapt."},
		{"Ecosystems", "food web predators", "A food web predators and prey keep each other in balance. Removing one species ripples through the rest."},
		{"Sourdough Starter", "sourdough starter feeding", "Sourdough starter feeding means mixing equal weights of flour and water daily. A healthy starter doubles within six hours."},
		{"Bread Baking", "dutch oven crust", "Baking in a preheated dutch oven crust comes out crackly and blistered. Remove the lid after twenty minutes."},
		{"Knife Skills", "julienne knife cut", "The julienne knife cut produces matchsticks two millimetres thick. Keep the fingertips curled under."},
		{"Stocks and Broths", "chicken stock simmer", "A chicken stock simmer should barely bubble for three hours. Skim the foam as it rises."},
		{"Pasta Making", "fresh egg pasta", "Fresh egg pasta uses one egg per hundred grams of flour. Rest the dough for half an hour before rolling."},
		{"Risotto", "arborio rice stirring", "Arborio rice stirring releases starch for a creamy texture. Add warm stock one ladle at a time."},
		{"Fermentation", "kimchi fermentation jar", "Pack cabbage tightly into the kimchi fermentation jar and leave it at room temperature for two days. Then refrigerate."},
		{"Chocolate Tempering", "chocolate tempering temperature", "Dark chocolate tempering temperature is thirty-one degrees after melting at forty-five. Tempered chocolate snaps cleanly."},
		{"Food Safety", "refrigerator danger zone", "Bacteria multiply fastest in the refrigerator danger zone between five and sixty degrees. Cool leftovers within two hours."},
		{"Spice Blends", "garam masala blend", "A garam masala blend toasts cumin, coriander, cardamom and cloves. Grind it just before use."},
		{"Budget Approval", "budget approval workflow", "Departments submit requests through the budget approval workflow in October. Finance consolidates them by December."},
		{"Invoice Processing", "three-way invoice matching", "Three-way invoice matching compares the purchase order, the goods receipt and the invoice. Mismatches are held for review."},
		{"Supplier Onboarding", "supplier due diligence", "New vendors pass supplier due diligence covering sanctions and bank details. Approval takes about five working days."},
		{"Corporate Cards", "corporate card limit", "Each corporate card limit is set by job level. Cash withdrawals are blocked."},
		{"Month-End Close", "month-end close calendar", "The month-end close calendar fixes deadlines for accruals and reconciliations. Books lock on the fifth working day."},
		{"VAT Returns", "quarterly VAT return", "The quarterly VAT return is filed with the tax office within forty days. Reverse-charge invoices need a special code."},
		{"Fixed Assets", "asset depreciation schedule", "Equipment over a thousand euros enters the asset depreciation schedule. Laptops depreciate over three years."},
		{"Currency Hedging", "forward currency contract", "Large dollar payments are covered by a forward currency contract. Treasury books them monthly."},
		{"Audit Preparation", "external audit fieldwork", "External audit fieldwork starts in February. Owners of each account prepare supporting schedules."},
		{"Procurement Thresholds", "three competing quotes", "Purchases above ten thousand euros require three competing quotes. The cheapest compliant offer normally wins."},
		{"Garden Soil", "soil pH testing", "Simple soil pH testing kits show whether beds are acidic. Blueberries prefer acidic ground."},
		{"Composting", "compost heap turning", "Regular compost heap turning adds air and speeds decomposition. Mix green and brown material evenly."},
		{"Tomato Growing", "tomato side shoots", "Pinch out tomato side shoots that appear between stem and leaf. Feed with potash once flowers form."},
		{"Pruning Roses", "rose pruning cut", "Make each rose pruning cut just above an outward-facing bud. Prune in late winter."},
		{"Lawn Care", "lawn scarifying rake", "A lawn scarifying rake pulls out moss and thatch in autumn. Overseed bare patches afterwards."},
		{"Seed Sowing", "seed tray germination", "Keep the seed tray germination compost moist but not soggy. A clear lid holds the humidity in."},
		{"Pest Control", "aphid ladybird control", "Aphid ladybird control is a natural way to protect roses. One ladybird eats dozens of aphids a day."},
		{"Watering", "drip irrigation hose", "A drip irrigation hose delivers water straight to the roots. It wastes far less than a sprinkler."},
		{"Greenhouse", "greenhouse ventilation vents", "Open the greenhouse ventilation vents on sunny mornings. Temperatures above thirty stress most plants."},
		{"Bee-Friendly Plants", "pollinator flower border", "A pollinator flower border of lavender and borage feeds bees all summer. Avoid pesticides near it."},
		{"Bike Maintenance", "chain lubrication oil", "Apply chain lubrication oil to each link after riding in rain. Wipe off the excess."},
		{"Tyre Pressure", "tyre pressure gauge", "Check with a tyre pressure gauge every week. Road tyres need around six bar."},
		{"Brake Pads", "disc brake pads", "Worn disc brake pads squeal and lose bite. Replace them when less than a millimetre remains."},
		{"Gear Indexing", "derailleur barrel adjuster", "Turn the derailleur barrel adjuster a quarter turn to fix skipping gears. Test in every sprocket."},
		{"Puncture Repair", "inner tube patch", "Roughen the rubber before gluing the inner tube patch. Wait a minute until the glue is tacky."},
		{"Bike Fitting", "saddle height adjustment", "Correct saddle height adjustment leaves a slight bend in the knee at the bottom of the stroke. Move in five millimetre steps."},
		{"Night Riding", "rear light visibility", "Good rear light visibility matters most at dusk. Flashing mode draws attention in traffic."},
		{"Bike Locks", "D-lock frame", "Pass the D-lock frame and rear wheel through a fixed stand. Cable locks alone are cut quickly."},
		{"Cycling Clothing", "waterproof cycling jacket", "A waterproof cycling jacket with pit zips keeps riders dry without overheating. Bright colours help visibility."},
		{"E-Bike Batteries", "e-bike battery range", "The e-bike battery range drops in cold weather. Store the pack indoors over winter."},
		{"Museum Passes", "city museum pass", "A city museum pass grants entry to forty collections for seventy-two hours. It also covers the river ferry."},
		{"Fossils", "fossil sediment layers", "Fossils form when remains are buried in fossil sediment layers and slowly mineralised. Deeper layers are older."},
		{"Soups", "cold gazpacho soup", "Cold gazpacho soup blends ripe tomatoes, cucumber, peppers and olive oil. Chill it for at least two hours."},
		{"Petty Cash", "petty cash tin", "Small purchases under fifty euros can be paid from the petty cash tin. Every withdrawal needs a slip."},
		{"Houseplants", "houseplant repotting", "Houseplant repotting is best done in spring into a pot one size larger. Loosen the roots gently."},
	}

	out := make([]Topic, 0, n)
	for i := 0; i < n && i < len(topics); i++ {
		t := topics[i]
		out = append(out, Topic{
			ID:      fmt.Sprintf("topic-%03d", i+1),
			Title:   t.title,
			Phrase:  t.phrase,
			Content: t.content,
		})
	}
	return out
}

// buildQueryTestCases asks every other topic's signature phrase.
func buildQueryTestCases(topics []Topic) []QueryTestCase {
	var cases []QueryTestCase
	for i := 0; i < len(topics); i += 2 {
		t := topics[i]
		cases = append(cases, QueryTestCase{
			Query:       t.Phrase,
			TopicID:     t.ID,
			Description: fmt.Sprintf("%q cites %s", t.Phrase, t.ID),
		})
	}
	return cases
}

func containsPhrase(t Topic, phrase string) bool {
	phrase = strings.ToLower(phrase)
	return strings.Contains(strings.ToLower(t.Title), phrase) ||
		strings.Contains(strings.ToLower(t.Content), phrase)
}
