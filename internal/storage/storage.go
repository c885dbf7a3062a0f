// Package storage persists the two dataset tables as brotli-compressed
// parquet files with fixed schemas. Worth, price and share columns are
// stored as DECIMAL(18, s) on int64 — fixed point end to end, so repeated
// load/save cycles never lose precision to binary floats.
package storage

import (
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ridgeline-data/rtb-cli/internal/dataset"
)

// ErrNotFound marks a load against a dataset file that does not exist.
// Callers that want empty-table semantics (first run) must branch on it
// explicitly.
var ErrNotFound = eris.New("dataset file not found")

// Decimal scales per column family, mirroring the on-disk schema.
const (
	worthScale  = 8
	priceScale  = 11
	sharesScale = 2
	rateScale   = 8
)

// billionaireRow is the persisted person-snapshot schema. Column order here
// is the on-disk column order.
type billionaireRow struct {
	Date                 int32   `parquet:"date,date,brotli"`
	PersonName           *string `parquet:"personName,optional,dict,brotli"`
	LastName             *string `parquet:"lastName,optional,dict,brotli"`
	BirthDate            *int32  `parquet:"birthDate,optional,date,brotli"`
	Gender               *string `parquet:"gender,optional,dict,brotli"`
	CountryOfCitizenship *string `parquet:"countryOfCitizenship,optional,dict,brotli"`
	City                 *string `parquet:"city,optional,dict,brotli"`
	State                *string `parquet:"state,optional,dict,brotli"`
	Source               *string `parquet:"source,optional,dict,brotli"`
	Industries           *string `parquet:"industries,optional,dict,brotli"`
	FinalWorth           *int64  `parquet:"finalWorth,optional,decimal(8:18),brotli"`
	EstWorthPrev         *int64  `parquet:"estWorthPrev,optional,decimal(8:18),brotli"`
	ArchivedWorth        *int64  `parquet:"archivedWorth,optional,decimal(8:18),brotli"`
	PrivateAssetsWorth   *int64  `parquet:"privateAssetsWorth,optional,decimal(8:18),brotli"`
}

// assetRow is the persisted asset-snapshot schema.
type assetRow struct {
	Date                int32   `parquet:"date,date,brotli"`
	PersonName          *string `parquet:"personName,optional,dict,brotli"`
	CompanyName         *string `parquet:"companyName,optional,dict,brotli"`
	CurrencyCode        *string `parquet:"currencyCode,optional,dict,brotli"`
	CurrentPrice        *int64  `parquet:"currentPrice,optional,decimal(11:18),brotli"`
	Exchange            *string `parquet:"exchange,optional,dict,brotli"`
	ExchangeRate        *int64  `parquet:"exchangeRate,optional,decimal(8:18),brotli"`
	ExerciseOptionPrice *int64  `parquet:"exerciseOptionPrice,optional,decimal(11:18),brotli"`
	Interactive         *bool   `parquet:"interactive,optional,brotli"`
	NumberOfShares      *int64  `parquet:"numberOfShares,optional,decimal(2:18),brotli"`
	SharePrice          *int64  `parquet:"sharePrice,optional,decimal(11:18),brotli"`
	Ticker              *string `parquet:"ticker,optional,dict,brotli"`
}

// LoadBillionaires reads the person-snapshot table. A missing file is a
// hard failure wrapping ErrNotFound.
func LoadBillionaires(path string) ([]dataset.Billionaire, error) {
	if err := statFile(path); err != nil {
		return nil, err
	}
	raw, err := parquet.ReadFile[billionaireRow](path)
	if err != nil {
		return nil, eris.Wrapf(err, "storage: read %s", path)
	}

	rows := make([]dataset.Billionaire, len(raw))
	for i, r := range raw {
		rows[i] = dataset.Billionaire{
			Date:                 fromEpochDays(r.Date),
			PersonName:           r.PersonName,
			LastName:             r.LastName,
			BirthDate:            optionalDate(r.BirthDate),
			Gender:               r.Gender,
			CountryOfCitizenship: r.CountryOfCitizenship,
			City:                 r.City,
			State:                r.State,
			Source:               r.Source,
			Industries:           r.Industries,
			FinalWorth:           fromScaled(r.FinalWorth, worthScale),
			EstWorthPrev:         fromScaled(r.EstWorthPrev, worthScale),
			ArchivedWorth:        fromScaled(r.ArchivedWorth, worthScale),
			PrivateAssetsWorth:   fromScaled(r.PrivateAssetsWorth, worthScale),
		}
	}
	zap.L().Info("storage: loaded billionaires", zap.String("path", path), zap.Int("rows", len(rows)))
	return rows, nil
}

// LoadAssets reads the asset-snapshot table. A missing file is a hard
// failure wrapping ErrNotFound.
func LoadAssets(path string) ([]dataset.Asset, error) {
	if err := statFile(path); err != nil {
		return nil, err
	}
	raw, err := parquet.ReadFile[assetRow](path)
	if err != nil {
		return nil, eris.Wrapf(err, "storage: read %s", path)
	}

	rows := make([]dataset.Asset, len(raw))
	for i, r := range raw {
		rows[i] = dataset.Asset{
			Date:                fromEpochDays(r.Date),
			PersonName:          r.PersonName,
			CompanyName:         r.CompanyName,
			CurrencyCode:        r.CurrencyCode,
			CurrentPrice:        fromScaled(r.CurrentPrice, priceScale),
			Exchange:            r.Exchange,
			ExchangeRate:        fromScaled(r.ExchangeRate, rateScale),
			ExerciseOptionPrice: fromScaled(r.ExerciseOptionPrice, priceScale),
			Interactive:         r.Interactive,
			NumberOfShares:      fromScaled(r.NumberOfShares, sharesScale),
			SharePrice:          fromScaled(r.SharePrice, priceScale),
			Ticker:              r.Ticker,
		}
	}
	zap.L().Info("storage: loaded assets", zap.String("path", path), zap.Int("rows", len(rows)))
	return rows, nil
}

// SaveBillionaires sorts by (personName, date) and writes the table. The
// input slice is not reordered.
func SaveBillionaires(rows []dataset.Billionaire, path string) error {
	sorted := make([]dataset.Billionaire, len(rows))
	copy(sorted, rows)
	dataset.SortBillionaires(sorted)

	out := make([]billionaireRow, len(sorted))
	for i, r := range sorted {
		out[i] = billionaireRow{
			Date:                 toEpochDays(r.Date),
			PersonName:           r.PersonName,
			LastName:             r.LastName,
			BirthDate:            optionalDays(r.BirthDate),
			Gender:               r.Gender,
			CountryOfCitizenship: r.CountryOfCitizenship,
			City:                 r.City,
			State:                r.State,
			Source:               r.Source,
			Industries:           r.Industries,
			FinalWorth:           toScaled(r.FinalWorth, worthScale),
			EstWorthPrev:         toScaled(r.EstWorthPrev, worthScale),
			ArchivedWorth:        toScaled(r.ArchivedWorth, worthScale),
			PrivateAssetsWorth:   toScaled(r.PrivateAssetsWorth, worthScale),
		}
	}
	return writeFile(path, out, len(rows), string(dataset.Billionaires))
}

// SaveAssets sorts by (personName, companyName, interactive, date) and
// writes the table.
func SaveAssets(rows []dataset.Asset, path string) error {
	sorted := make([]dataset.Asset, len(rows))
	copy(sorted, rows)
	dataset.SortAssets(sorted)

	out := make([]assetRow, len(sorted))
	for i, r := range sorted {
		out[i] = assetRow{
			Date:                toEpochDays(r.Date),
			PersonName:          r.PersonName,
			CompanyName:         r.CompanyName,
			CurrencyCode:        r.CurrencyCode,
			CurrentPrice:        toScaled(r.CurrentPrice, priceScale),
			Exchange:            r.Exchange,
			ExchangeRate:        toScaled(r.ExchangeRate, rateScale),
			ExerciseOptionPrice: toScaled(r.ExerciseOptionPrice, priceScale),
			Interactive:         r.Interactive,
			NumberOfShares:      toScaled(r.NumberOfShares, sharesScale),
			SharePrice:          toScaled(r.SharePrice, priceScale),
			Ticker:              r.Ticker,
		}
	}
	return writeFile(path, out, len(rows), string(dataset.Assets))
}

func writeFile[T any](path string, rows []T, count int, kind string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "storage: create directory %s", dir)
		}
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return eris.Wrapf(err, "storage: write %s", path)
	}
	zap.L().Info("storage: saved dataset",
		zap.String("dataset", kind),
		zap.String("path", path),
		zap.Int("rows", count),
	)
	return nil
}

func statFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return eris.Wrapf(ErrNotFound, "%s", path)
		}
		return eris.Wrapf(err, "storage: stat %s", path)
	}
	return nil
}

// toScaled converts a decimal to the column's scaled int64 representation,
// rounding half-up when the value carries more fractional digits than the
// schema keeps. This is the silent coercion the loader contract requires.
func toScaled(d decimal.NullDecimal, scale int32) *int64 {
	if !d.Valid {
		return nil
	}
	v := d.Decimal.Shift(scale).Round(0).IntPart()
	return &v
}

func fromScaled(v *int64, scale int32) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimal.New(*v, -scale), Valid: true}
}

const secondsPerDay = 24 * 60 * 60

func toEpochDays(t time.Time) int32 {
	return int32(dataset.Date(t).Unix() / secondsPerDay)
}

func fromEpochDays(d int32) time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

func optionalDays(t *time.Time) *int32 {
	if t == nil {
		return nil
	}
	d := toEpochDays(*t)
	return &d
}

func optionalDate(d *int32) *time.Time {
	if d == nil {
		return nil
	}
	t := fromEpochDays(*d)
	return &t
}
