// Package services содержит состояние мастера оформления подписки:
// шаги 1..5, выбранный пакет, параметры доставки и дополнительные товары.
// Состояние живёт только в памяти.
package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/bukafresh-client/internal/lib/apperr"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/sl"
	"github.com/magabrotheeeer/bukafresh-client/internal/lib/validate"
	"github.com/magabrotheeeer/bukafresh-client/internal/models"
)

// Границы шагов мастера.
const (
	FirstStep   = 1
	LastStep    = 5
	AccountStep = 3
)

// DefaultDeliveryDay — день доставки по умолчанию.
const DefaultDeliveryDay = "saturday"

// Сообщения при неудачной регистрации на шаге оформления.
const (
	MsgEmailTaken = "This email address is already registered. Try logging in instead, or use a different email."
	MsgPhoneTaken = "This phone number is already registered. Please use a different number or contact support."
	MsgConnection = "Connection problem - please check your internet and try again."
	MsgSlow       = "This is taking longer than usual. Please try again."
	MsgRejected   = "Something went wrong. Please try again or contact our support team."
	MsgNoAddress  = "Please add a delivery address before creating your account."
	MsgNoPackage  = "Please choose a package before creating your account."
)

// Registrar — вызов бэкенда, создающий аккаунт при оформлении.
type Registrar interface {
	CheckoutRegister(ctx context.Context, req models.CheckoutRegisterRequest) (models.CheckoutRegisterResult, error)
}

// Snapshot — копия состояния мастера.
type Snapshot struct {
	Step              int                      `json:"step"`
	SelectedPackage   *models.Package          `json:"selectedPackage"`
	DeliveryFrequency models.DeliveryFrequency `json:"deliveryFrequency"`
	DeliveryAddress   *models.Address          `json:"deliveryAddress"`
	DeliveryDay       string                   `json:"deliveryDay"`
	PendingPlanChange *models.PlanChange       `json:"pendingPlanChange"`
	AddOns            []models.AddOn           `json:"addOns"`
	MonthlyTotal      float64                  `json:"monthlyTotal"`
	AddOnsTotal       float64                  `json:"addOnsTotal"`
}

// Confirmation — результат успешной регистрации на шаге оформления.
type Confirmation struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Wizard — состояние мастера оформления. Безопасен для конкурентного использования.
type Wizard struct {
	registrar Registrar
	validate  *validator.Validate
	log       *slog.Logger

	mu                sync.RWMutex
	step              int
	selectedPackage   *models.Package
	deliveryFrequency models.DeliveryFrequency
	deliveryAddress   *models.Address
	deliveryDay       string
	pendingPlanChange *models.PlanChange
	addOns            []models.AddOn
}

// NewWizard создаёт мастер в начальном состоянии.
func NewWizard(r Registrar, log *slog.Logger) *Wizard {
	w := &Wizard{
		registrar: r,
		validate:  validate.New(),
		log:       log,
	}
	w.resetLocked()
	return w
}

func (w *Wizard) resetLocked() {
	w.step = FirstStep
	w.selectedPackage = nil
	w.deliveryFrequency = models.DeliveryMonthly
	w.deliveryAddress = nil
	w.deliveryDay = DefaultDeliveryDay
	w.pendingPlanChange = nil
	w.addOns = nil
}

// Reset возвращает мастер в начальное состояние.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
}

// Step возвращает текущий шаг.
func (w *Wizard) Step() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.step
}

// NextStep переходит на следующий шаг, не выходя за LastStep.
// Готовность шага не проверяется: для этого есть CanProceed.
func (w *Wizard) NextStep() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = min(w.step+1, LastStep)
	return w.step
}

// PrevStep возвращается на шаг назад, не опускаясь ниже FirstStep.
func (w *Wizard) PrevStep() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = max(w.step-1, FirstStep)
	return w.step
}

// SetStep переходит к уже пройденному шагу. Переход вперёд запрещён.
func (w *Wizard) SetStep(n int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if n < FirstStep || n > w.step {
		return apperr.Validation("You can only go back to a step you have already completed.", nil)
	}
	w.step = n
	return nil
}

// SelectPackage выбирает пакет.
func (w *Wizard) SelectPackage(p models.Package) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selectedPackage = &p
}

// SetDeliveryFrequency задаёт частоту доставки.
func (w *Wizard) SetDeliveryFrequency(f models.DeliveryFrequency) error {
	if !f.Valid() {
		return apperr.Validation("Delivery frequency must be weekly or monthly.", nil)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.deliveryFrequency = f
	return nil
}

// SetDeliveryAddress задаёт адрес доставки. nil сбрасывает адрес.
func (w *Wizard) SetDeliveryAddress(a *models.Address) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if a == nil {
		w.deliveryAddress = nil
		return
	}
	cp := *a
	w.deliveryAddress = &cp
}

// SetDeliveryDay задаёт день доставки.
func (w *Wizard) SetDeliveryDay(day string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.deliveryDay = day
}

// SetPendingPlanChange запоминает запрошенную смену тарифа. nil сбрасывает её.
func (w *Wizard) SetPendingPlanChange(c *models.PlanChange) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if c == nil {
		w.pendingPlanChange = nil
		return
	}
	cp := *c
	w.pendingPlanChange = &cp
}

// AddAddOn добавляет товар. Если товар с тем же ProductID уже есть,
// количества складываются. Товар с итоговым количеством <= 0 удаляется.
func (w *Wizard) AddAddOn(item models.AddOn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.addOns {
		if w.addOns[i].ProductID == item.ProductID {
			w.addOns[i].Quantity += item.Quantity
			if w.addOns[i].Quantity <= 0 {
				w.removeLocked(item.ProductID)
			}
			return
		}
	}
	if item.Quantity <= 0 {
		return
	}
	w.addOns = append(w.addOns, item)
}

// RemoveAddOn удаляет товар.
func (w *Wizard) RemoveAddOn(productID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.removeLocked(productID)
}

func (w *Wizard) removeLocked(productID string) {
	out := w.addOns[:0]
	for _, a := range w.addOns {
		if a.ProductID != productID {
			out = append(out, a)
		}
	}
	w.addOns = out
}

// UpdateAddOnQuantity меняет количество товара; qty <= 0 удаляет его.
func (w *Wizard) UpdateAddOnQuantity(productID string, qty int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if qty <= 0 {
		w.removeLocked(productID)
		return
	}
	for i := range w.addOns {
		if w.addOns[i].ProductID == productID {
			w.addOns[i].Quantity = qty
			return
		}
	}
}

// MonthlyTotal возвращает месячную цену выбранного пакета для текущей частоты
// доставки или 0, если пакет не выбран.
func (w *Wizard) MonthlyTotal() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.monthlyTotalLocked()
}

func (w *Wizard) monthlyTotalLocked() float64 {
	if w.selectedPackage == nil {
		return 0
	}
	return w.selectedPackage.PriceFor(w.deliveryFrequency)
}

// AddOnsTotal — сумма price*quantity по всем товарам. Оплачивается отдельно.
func (w *Wizard) AddOnsTotal() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.addOnsTotalLocked()
}

func (w *Wizard) addOnsTotalLocked() float64 {
	var sum float64
	for _, a := range w.addOns {
		sum += a.Price * float64(a.Quantity)
	}
	return sum
}

// CanProceed сообщает, заполнено ли всё необходимое на текущем шаге.
// account нужен только для шага AccountStep.
func (w *Wizard) CanProceed(account models.AccountForm) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	switch w.step {
	case 1:
		return w.selectedPackage != nil
	case 2:
		return w.deliveryAddress != nil
	case AccountStep:
		return account.FirstName != "" && account.LastName != "" &&
			account.Email != "" && account.Password != ""
	default:
		return false
	}
}

// Snapshot возвращает копию состояния.
func (w *Wizard) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s := Snapshot{
		Step:              w.step,
		DeliveryFrequency: w.deliveryFrequency,
		DeliveryDay:       w.deliveryDay,
		AddOns:            append([]models.AddOn(nil), w.addOns...),
		MonthlyTotal:      w.monthlyTotalLocked(),
		AddOnsTotal:       w.addOnsTotalLocked(),
	}
	if w.selectedPackage != nil {
		p := *w.selectedPackage
		s.SelectedPackage = &p
	}
	if w.deliveryAddress != nil {
		a := *w.deliveryAddress
		s.DeliveryAddress = &a
	}
	if w.pendingPlanChange != nil {
		c := *w.pendingPlanChange
		s.PendingPlanChange = &c
	}
	return s
}

// Submit создаёт аккаунт с адресом доставки. Состояние мастера не меняется
// ни при успехе, ни при ошибке, поэтому отправку можно повторить.
func (w *Wizard) Submit(ctx context.Context, account models.AccountForm) (Confirmation, error) {
	const op = "services.checkout.Submit"
	log := w.log.With(slog.String("op", op))

	if err := w.validate.Struct(account); err != nil {
		return Confirmation{}, apperr.Validation(validate.Message(err), err)
	}

	w.mu.RLock()
	pkg, addr := w.selectedPackage, w.deliveryAddress
	w.mu.RUnlock()
	if pkg == nil {
		return Confirmation{}, apperr.Validation(MsgNoPackage, nil)
	}
	if addr == nil {
		return Confirmation{}, apperr.Validation(MsgNoAddress, nil)
	}

	req := models.CheckoutRegisterRequest{
		FirstName:       account.FirstName,
		LastName:        account.LastName,
		Email:           account.Email,
		Password:        account.Password,
		Phone:           account.Phone,
		DeliveryAddress: addr.ToDelivery(),
	}
	res, err := w.registrar.CheckoutRegister(ctx, req)
	if err != nil {
		log.Info("checkout registration failed", sl.Err(err))
		return Confirmation{}, submitError(err)
	}

	log.Info("account created at checkout", slog.String("package", pkg.Name))
	email := res.Email
	if email == "" {
		email = account.Email
	}
	return Confirmation{Email: email, Message: res.Message}, nil
}

// submitError переводит ошибку регистрации в текст для экрана оформления.
func submitError(err error) error {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		return err
	}
	msg := ae.Message
	switch ae.Kind {
	case apperr.KindConflictEmail:
		msg = MsgEmailTaken
	case apperr.KindConflictPhone:
		msg = MsgPhoneTaken
	case apperr.KindNetwork:
		msg = MsgConnection
	case apperr.KindTimeout:
		msg = MsgSlow
	case apperr.KindRejected:
		if msg == "" {
			msg = MsgRejected
		}
	}
	return &apperr.Error{Kind: ae.Kind, Message: msg, Status: ae.Status, Err: err}
}
