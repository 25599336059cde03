package assessment

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/profiler/internal/apperr"
)

//go:embed questions.yaml
var defaultBankYAML []byte

//go:embed bank.schema.json
var bankSchemaJSON []byte

const bankSchemaURL = "schema://question-bank.json"

// Option is one selectable answer and the weights it contributes.
type Option struct {
	Text          string  `yaml:"text" json:"text"`
	Analytical    float64 `yaml:"analytical" json:"analytical"`
	Communication float64 `yaml:"communication" json:"communication"`
}

// Weights returns the option's weight pair.
func (o Option) Weights() WeightPair {
	return WeightPair{Analytical: o.Analytical, Communication: o.Communication}
}

// Question is a prompt with its ordered options. Index is the question's
// position in the bank.
type Question struct {
	Index   int      `yaml:"-" json:"index"`
	Text    string   `yaml:"text" json:"text"`
	Options []Option `yaml:"options" json:"options"`
}

// QuestionBank is the ordered, immutable question set.
type QuestionBank struct {
	questions []Question
}

type bankDocument struct {
	Questions []Question `yaml:"questions"`
}

// LoadQuestionBank returns the built-in question bank.
func LoadQuestionBank() (QuestionBank, error) {
	return ParseQuestionBank(defaultBankYAML)
}

// LoadQuestionBankFile reads a question bank from a YAML file. An empty
// path selects the built-in bank.
func LoadQuestionBankFile(path string) (QuestionBank, error) {
	if path == "" {
		return LoadQuestionBank()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return QuestionBank{}, apperr.Wrap(apperr.CodeConfiguration, err, "read question bank %s", path)
	}
	return ParseQuestionBank(data)
}

// ParseQuestionBank decodes and validates a YAML question bank.
func ParseQuestionBank(data []byte) (QuestionBank, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return QuestionBank{}, apperr.Wrap(apperr.CodeConfiguration, err, "parse question bank")
	}
	if err := validateBankDocument(raw); err != nil {
		return QuestionBank{}, err
	}

	var doc bankDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return QuestionBank{}, apperr.Wrap(apperr.CodeConfiguration, err, "decode question bank")
	}
	return NewQuestionBank(doc.Questions)
}

// NewQuestionBank builds a bank from questions in order. It fails when the
// list is empty or a question has no options.
func NewQuestionBank(questions []Question) (QuestionBank, error) {
	if len(questions) == 0 {
		return QuestionBank{}, apperr.New(apperr.CodeConfiguration, "question bank is empty")
	}
	qs := make([]Question, len(questions))
	for i, q := range questions {
		if len(q.Options) == 0 {
			return QuestionBank{}, apperr.New(apperr.CodeConfiguration, "question %d has no options", i+1)
		}
		opts := make([]Option, len(q.Options))
		copy(opts, q.Options)
		qs[i] = Question{Index: i, Text: q.Text, Options: opts}
	}
	return QuestionBank{questions: qs}, nil
}

// Len returns the number of questions.
func (b QuestionBank) Len() int {
	return len(b.questions)
}

// Question returns the question at index i.
func (b QuestionBank) Question(i int) (Question, bool) {
	if i < 0 || i >= len(b.questions) {
		return Question{}, false
	}
	return b.questions[i], true
}

// Questions returns a copy of the questions in order.
func (b QuestionBank) Questions() []Question {
	out := make([]Question, len(b.questions))
	copy(out, b.questions)
	return out
}

// validateBankDocument checks the decoded YAML against the bank schema.
func validateBankDocument(raw any) error {
	// Round-trip through JSON so the validator sees plain JSON values.
	b, err := json.Marshal(raw)
	if err != nil {
		return apperr.Wrap(apperr.CodeConfiguration, err, "question bank is not a document")
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return apperr.Wrap(apperr.CodeConfiguration, err, "question bank is not a document")
	}

	schema, err := compileBankSchema()
	if err != nil {
		return apperr.Wrap(apperr.CodeConfiguration, err, "compile question bank schema")
	}
	if err := schema.Validate(doc); err != nil {
		return apperr.Wrap(apperr.CodeConfiguration, err, "invalid question bank")
	}
	return nil
}

func compileBankSchema() (*jsonschema.Schema, error) {
	var def any
	if err := json.Unmarshal(bankSchemaJSON, &def); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(bankSchemaURL, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(bankSchemaURL)
}
