package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/finatech/onboard/internal/api"
	"github.com/finatech/onboard/internal/form"
	"github.com/finatech/onboard/internal/onboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSubmitter records calls. block, when set, holds every call until closed.
type fakeSubmitter struct {
	mu      sync.Mutex
	calls   []string
	id      string
	failOn  map[string]error
	block   chan struct{}
	entered chan struct{}
}

func newFake() *fakeSubmitter {
	return &fakeSubmitter{id: "user-42", failOn: map[string]error{}}
}

func (f *fakeSubmitter) record(name string) error {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	err := f.failOn[name]
	block, entered := f.block, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return err
}

func (f *fakeSubmitter) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeSubmitter) CreateEndUser(_ context.Context, _ api.EndUserRequest) (*api.EndUser, error) {
	if err := f.record("enduser"); err != nil {
		return nil, err
	}
	return &api.EndUser{ID: f.id}, nil
}

func (f *fakeSubmitter) CreateAddress(_ context.Context, _ api.AddressRequest) error {
	return f.record("address")
}

func (f *fakeSubmitter) CreateFinancing(_ context.Context, _ api.FinancingRequest) error {
	return f.record("financing")
}

func (f *fakeSubmitter) CreateOccupation(_ context.Context, _ api.OccupationRequest) error {
	return f.record("occupation")
}

var stepValues = []form.Values{
	{
		"fullName": "Maria da Silva", "document": "529.982.247-25", "nationalIdentification": "12.345.678-9",
		"motherName": "Ana da Silva", "birthDate": "15/03/1990", "email": "maria@example.com",
		"phone": "(+55) 11 98765-4321",
	},
	{
		"zipCode": "01310-100", "street": "Avenida Paulista", "number": "1000",
		"neighborhood": "Bela Vista", "city": "São Paulo", "state": "SP",
	},
	{"defaultVehicle": "true"},
	{
		"professionalSituation": "salaried", "company.name": "ACME", "role": "Analista",
		"grossIncome": "R$ 4.000,00", "serviceTime": "3",
	},
}

func fillAndAdvance(t *testing.T, c *Controller) {
	t.Helper()
	c.SetValues(stepValues[c.Index()])
	res, err := c.Advance(context.Background())
	require.NoError(t, err)
	require.Equal(t, Advanced, res)
}

func TestController_FullJourney(t *testing.T) {
	sub := newFake()
	var events []Event
	c := New(sub, WithObserver(ObserverFunc(func(_ context.Context, e Event) {
		events = append(events, e)
	})))

	for i := 0; i < c.StepCount(); i++ {
		assert.Equal(t, i, c.Index())
		fillAndAdvance(t, c)
	}

	assert.True(t, c.Completed())
	assert.Equal(t, "user-42", c.Identifier())
	assert.Equal(t, []string{"enduser", "address", "financing", "occupation"}, sub.Calls())

	st := c.State()
	assert.True(t, st.Completed())
	assert.Nil(t, st.Step)

	require.Len(t, events, 5)
	assert.Equal(t, EventSubmitted, events[0].Kind)
	assert.Equal(t, "user-42", events[0].Identifier)
	assert.Equal(t, EventCompleted, events[4].Kind)
	assert.Equal(t, c.StepCount()-1, events[4].Step)

	_, err := c.Advance(context.Background())
	assert.ErrorIs(t, err, ErrCompleted)
}

func TestController_InvalidNeverAdvances(t *testing.T) {
	for step := 0; step < onboard.StepCount; step++ {
		t.Run(onboard.StepAt(step).Title, func(t *testing.T) {
			sub := newFake()
			c := New(sub)
			for c.Index() < step {
				fillAndAdvance(t, c)
			}
			before := len(sub.Calls())

			if step == int(onboard.StepFinancing) {
				c.SetValue("defaultVehicle", "false")
			}
			res, err := c.Advance(context.Background())
			require.NoError(t, err)
			assert.Equal(t, Invalid, res)
			assert.Equal(t, step, c.Index())
			assert.NotEmpty(t, c.State().Errors)
			assert.Len(t, sub.Calls(), before, "nothing is submitted")
		})
	}
}

func TestController_IdentifierFromStepOne(t *testing.T) {
	sub := newFake()
	sub.id = "abc-123"
	c := New(sub)
	assert.Empty(t, c.Identifier())

	fillAndAdvance(t, c)
	assert.Equal(t, "abc-123", c.Identifier())
}

func TestController_FailureKeepsIndexAndValues(t *testing.T) {
	sub := newFake()
	c := New(sub)
	fillAndAdvance(t, c)
	fillAndAdvance(t, c)

	sub.failOn["financing"] = errors.New("low probability")
	c.SetValues(stepValues[2])

	res, err := c.Advance(context.Background())
	assert.Equal(t, Failed, res)
	assert.Error(t, err)

	st := c.State()
	assert.Equal(t, 2, st.Index)
	assert.Equal(t, "Financiamento com baixa probabilidade", st.Banner)
	assert.Equal(t, "true", st.Values["defaultVehicle"], "values survive the failure")

	delete(sub.failOn, "financing")
	res, err = c.Advance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Advanced, res)
	assert.Empty(t, c.State().Banner)
	assert.Equal(t, []string{"enduser", "address", "financing", "financing"}, sub.Calls())
}

func TestController_StepOneFailureBanner(t *testing.T) {
	sub := newFake()
	sub.failOn["enduser"] = errors.New("boom")
	c := New(sub)
	c.SetValues(stepValues[0])

	res, err := c.Advance(context.Background())
	assert.Equal(t, Failed, res)
	assert.Error(t, err)
	assert.Equal(t, "Erro ao criar usuário", c.State().Banner)
	assert.Empty(t, c.Identifier())
}

func TestController_MissingIdentifierIsFatal(t *testing.T) {
	sub := newFake()
	c := New(sub, WithSteps(onboard.Steps()[1:]))
	c.SetValues(stepValues[1])

	res, err := c.Advance(context.Background())
	assert.Equal(t, Fatal, res)
	assert.ErrorIs(t, err, ErrMissingIdentifier)
	assert.Empty(t, sub.Calls(), "the gateway is never called")

	res, err = c.Advance(context.Background())
	assert.Equal(t, Fatal, res)
	assert.ErrorIs(t, err, ErrMissingIdentifier)
	assert.Error(t, c.State().Fatal)
}

func TestController_OneSubmissionInFlight(t *testing.T) {
	sub := newFake()
	sub.block = make(chan struct{})
	sub.entered = make(chan struct{}, 1)
	c := New(sub)
	c.SetValues(stepValues[0])

	done := make(chan Result, 1)
	go func() {
		res, _ := c.Advance(context.Background())
		done <- res
	}()
	<-sub.entered

	assert.True(t, c.State().Submitting)
	_, err := c.Advance(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(sub.block)
	assert.Equal(t, Advanced, <-done)
	assert.Equal(t, []string{"enduser"}, sub.Calls())
}

func TestController_SituationChangeClearsErrors(t *testing.T) {
	c := New(newFake())
	for c.Index() < int(onboard.StepProfessional) {
		fillAndAdvance(t, c)
	}

	c.SetValues(form.Values{"professionalSituation": "business-owner", "grossIncome": "R$ 9.000,00", "company.name": "ACME"})
	res, err := c.Advance(context.Background())
	require.NoError(t, err)
	require.Equal(t, Invalid, res)

	errs := c.State().Errors
	assert.Contains(t, errs, "company.registry")
	assert.Contains(t, errs, "company.address.zipCode")

	c.SetValue("professionalSituation", "salaried")
	errs = c.State().Errors
	assert.NotContains(t, errs, "company.registry")
	assert.NotContains(t, errs, "company.address.zipCode")
	assert.Equal(t, "Informe o tempo de serviço", errs["serviceTime"], "errors still applicable are kept")
}

func TestController_CheckFieldIsLenient(t *testing.T) {
	c := New(newFake())
	c.SetValue("document", "123.456.789-0_")
	assert.Empty(t, c.CheckField("document"))

	c.SetValue("document", "123.456.789-00")
	assert.Equal(t, "CPF inválido", c.CheckField("document"))
}

func TestController_Idempotent(t *testing.T) {
	c := New(newFake())
	c.SetValue("email", "x")

	_, _ = c.Advance(context.Background())
	first := c.State().Errors
	_, _ = c.Advance(context.Background())
	second := c.State().Errors

	assert.Equal(t, first, second)
	assert.Equal(t, 0, c.Index())
}
