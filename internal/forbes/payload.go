package forbes

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"

	"github.com/ridgeline-data/rtb-cli/internal/dataset"
)

// PersonRecord is one person entry as returned by the Forbes real-time
// billionaires API.
type PersonRecord struct {
	PersonName           string              `json:"personName"`
	LastName             string              `json:"lastName"`
	BirthDate            FlexDate            `json:"birthDate"`
	Gender               string              `json:"gender"`
	CountryOfCitizenship string              `json:"countryOfCitizenship"`
	City                 string              `json:"city"`
	State                string              `json:"state"`
	Source               string              `json:"source"`
	Industries           StringList          `json:"industries"`
	FinalWorth           decimal.NullDecimal `json:"finalWorth"`
	EstWorthPrev         decimal.NullDecimal `json:"estWorthPrev"`
	ArchivedWorth        decimal.NullDecimal `json:"archivedWorth"`
	PrivateAssetsWorth   decimal.NullDecimal `json:"privateAssetsWorth"`
	FinancialAssets      []AssetRecord       `json:"financialAssets"`
}

// AssetRecord is one financial-asset entry nested inside a person record.
type AssetRecord struct {
	CompanyName         string              `json:"companyName"`
	CurrencyCode        string              `json:"currencyCode"`
	CurrentPrice        decimal.NullDecimal `json:"currentPrice"`
	Exchange            string              `json:"exchange"`
	ExchangeRate        decimal.NullDecimal `json:"exchangeRate"`
	ExerciseOptionPrice decimal.NullDecimal `json:"exerciseOptionPrice"`
	Interactive         *bool               `json:"interactive"`
	NumberOfShares      decimal.NullDecimal `json:"numberOfShares"`
	SharePrice          decimal.NullDecimal `json:"sharePrice"`
	Ticker              string              `json:"ticker"`
}

// FlexDate decodes the API's two birthDate encodings: "YYYY-MM-DD" strings
// and epoch-millisecond numbers. Null, empty and unparseable values decode
// to missing.
type FlexDate struct {
	Time *time.Time
}

func (d *FlexDate) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` || s == "" {
		d.Time = nil
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return eris.Wrap(err, "forbes: birthDate string")
		}
		t, err := time.Parse("2006-01-02", strings.TrimSpace(str))
		if err != nil {
			// The feed occasionally ships garbage here; treat it as missing
			// rather than failing the whole snapshot.
			d.Time = nil
			return nil
		}
		utc := dataset.Date(t)
		d.Time = &utc
		return nil
	}
	var millis int64
	if err := json.Unmarshal(data, &millis); err != nil {
		d.Time = nil
		return nil
	}
	utc := dataset.Date(time.UnixMilli(millis).UTC())
	d.Time = &utc
	return nil
}

// StringList decodes a field that is sometimes a plain string and sometimes
// a list of strings; lists are joined with ", ".
type StringList string

func (s *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return eris.Wrap(err, "forbes: string list")
		}
		*s = StringList(strings.Join(items, ", "))
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return eris.Wrap(err, "forbes: string")
	}
	*s = StringList(str)
	return nil
}

// envelope covers the three response shapes the API has shipped over time:
// personList.personsLists, a bare personList array, and a data array.
type envelope struct {
	PersonList json.RawMessage `json:"personList"`
	Data       []PersonRecord  `json:"data"`
}

// extractRecords pulls the person list out of whichever envelope shape the
// payload uses. An empty list is not an error here; the client treats it as
// a rejected endpoint.
func extractRecords(body []byte) ([]PersonRecord, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, eris.Wrap(err, "forbes: decode payload")
	}

	if len(env.PersonList) > 0 {
		var nested struct {
			PersonsLists []PersonRecord `json:"personsLists"`
		}
		if err := json.Unmarshal(env.PersonList, &nested); err == nil && len(nested.PersonsLists) > 0 {
			return nested.PersonsLists, nil
		}
		var flat []PersonRecord
		if err := json.Unmarshal(env.PersonList, &flat); err == nil && len(flat) > 0 {
			return flat, nil
		}
	}
	return env.Data, nil
}

// ToRows flattens fetched person records into dataset rows, stamping every
// row with the run date. Empty strings become missing on the way in.
func ToRows(records []PersonRecord, runDate time.Time) ([]dataset.Billionaire, []dataset.Asset) {
	date := dataset.Date(runDate)

	people := make([]dataset.Billionaire, 0, len(records))
	var assets []dataset.Asset

	for _, rec := range records {
		people = append(people, dataset.Billionaire{
			Date:                 date,
			PersonName:           dataset.String(rec.PersonName),
			LastName:             dataset.String(rec.LastName),
			BirthDate:            rec.BirthDate.Time,
			Gender:               dataset.String(rec.Gender),
			CountryOfCitizenship: dataset.String(rec.CountryOfCitizenship),
			City:                 dataset.String(rec.City),
			State:                dataset.String(rec.State),
			Source:               dataset.String(rec.Source),
			Industries:           dataset.String(string(rec.Industries)),
			FinalWorth:           rec.FinalWorth,
			EstWorthPrev:         rec.EstWorthPrev,
			ArchivedWorth:        rec.ArchivedWorth,
			PrivateAssetsWorth:   rec.PrivateAssetsWorth,
		})

		for _, asset := range rec.FinancialAssets {
			assets = append(assets, dataset.Asset{
				Date:                date,
				PersonName:          dataset.String(rec.PersonName),
				CompanyName:         dataset.String(asset.CompanyName),
				CurrencyCode:        dataset.String(asset.CurrencyCode),
				CurrentPrice:        asset.CurrentPrice,
				Exchange:            dataset.String(asset.Exchange),
				ExchangeRate:        asset.ExchangeRate,
				ExerciseOptionPrice: asset.ExerciseOptionPrice,
				Interactive:         asset.Interactive,
				NumberOfShares:      asset.NumberOfShares,
				SharePrice:          asset.SharePrice,
				Ticker:              dataset.String(asset.Ticker),
			})
		}
	}
	return people, assets
}
