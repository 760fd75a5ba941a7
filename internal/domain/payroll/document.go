package payroll

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var documentValidator = validator.New()

// DecodeDocument parses and validates the payroll document held by a record.
// Any failure is returned as a *MalformedDocumentError naming the record.
func DecodeDocument(rec Record) (Document, error) {
	var doc Document
	if err := json.Unmarshal([]byte(rec.DocumentJSON), &doc); err != nil {
		return Document{}, &MalformedDocumentError{EmployeeID: rec.PartitionKey, Period: rec.RowKey, Err: err}
	}
	if err := documentValidator.Struct(doc); err != nil {
		return Document{}, &MalformedDocumentError{EmployeeID: rec.PartitionKey, Period: rec.RowKey, Err: describeValidation(err)}
	}
	return doc, nil
}

func describeValidation(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("missing or invalid fields: %s", strings.Join(fields, ", "))
}
