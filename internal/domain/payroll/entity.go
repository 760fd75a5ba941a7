package payroll

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// CreditEventType is the event type flag of earnings. Every other flag is a deduction.
const CreditEventType = "Provento"

// Record is one stored item of the record store, keyed by (matrícula, period).
type Record struct {
	PartitionKey string `csv:"PartitionKey"` // matrícula
	RowKey       string `csv:"RowKey"`       // MM_YYYY
	Reference    string `csv:"referencia"`   // MM/YYYY
	UnitCode     int    `csv:"codigo_unidade"`
	Information  string `csv:"informacao"`
	LastUpdate   string `csv:"ultimaAtualizacao"`
	DocumentJSON string `csv:"dados_json"`
}

// Document is the payroll document of one employee for one period, as published by
// the transparency portal.
type Document struct {
	Employee *EmployeeInfo `json:"matricula" validate:"required"`
	Payslips []PayslipEntry `json:"listFolha" validate:"required,dive"`
}

type EmployeeInfo struct {
	Number        FlexString `json:"numero"`
	Name          string     `json:"nome"`
	AdmissionDate string     `json:"dataAdmissao"`
}

type PayslipEntry struct {
	Date            string           `json:"data" validate:"required"`
	History         *History         `json:"historico" validate:"required"`
	CalculationType *CalculationType `json:"tipoCalculo" validate:"required"`
	Events          []PaymentEvent   `json:"listEventos" validate:"required,dive"`
}

type History struct {
	MonthlyHours decimal.Decimal `json:"nrHorasMensais"`
}

type CalculationType struct {
	Denomination string `json:"tipoDenominacao"`
}

type PaymentEvent struct {
	Denomination   string           `json:"denominacao" validate:"required"`
	ReferenceValue decimal.Decimal  `json:"valorReferencia"`
	Amount         *decimal.Decimal `json:"valorEvento" validate:"required"`
	Type           string           `json:"tipoEventoDenominacao" validate:"required"`
}

// SignedAmount is the event's contribution to pay: earnings keep their sign,
// everything else is negated.
func (e PaymentEvent) SignedAmount() decimal.Decimal {
	if e.Type == CreditEventType {
		return *e.Amount
	}
	return e.Amount.Neg()
}

// FlexString decodes a JSON string or number into its textual form.
// The portal serves matrícula numbers as numbers; the record store keys them as strings.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(strings.TrimSpace(v))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

func (s FlexString) String() string {
	return string(s)
}
