package admin

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"silicon.com/app/internal/backend"
	"silicon.com/app/internal/form"
	"silicon.com/app/internal/http/middleware"
	"silicon.com/app/internal/http/render"
	"silicon.com/app/internal/http/validation"
	"silicon.com/app/internal/modules/accessories"
	"silicon.com/app/internal/modules/products"
	"silicon.com/app/internal/shared/apperr"
	"silicon.com/app/internal/storage"
	"silicon.com/app/internal/wizard"
)

const maxImageSize = 8 << 20

// WizardHandler drives creation wizards held in a wizard.Store. A flow is
// visible only to the admin who started it.
type WizardHandler struct {
	store  *wizard.Store
	client *backend.Client
	images storage.Storage
	log    *zap.Logger
}

func NewWizardHandler(store *wizard.Store, client *backend.Client, images storage.Storage, log *zap.Logger) *WizardHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WizardHandler{store: store, client: client, images: images, log: log}
}

// NewFlow builds a fresh flow of the given kind that calls the backend as
// api.
func NewFlow(kind string, api *backend.Client, images storage.Storage, log *zap.Logger) (wizard.Flow, error) {
	switch kind {
	case products.Kind:
		return products.NewWizard(api, images, log), nil
	case accessories.Kind:
		return accessories.NewWizard(api), nil
	}
	return nil, fmt.Errorf("%w: %q", errUnknownKind, kind)
}

type fieldView struct {
	Name  string   `json:"name"`
	List  bool     `json:"list,omitempty"`
	Parts []string `json:"parts,omitempty"`
	Len   int      `json:"len,omitempty"`
}

type wizardView struct {
	ID     string          `json:"id"`
	Kind   string          `json:"kind"`
	State  wizard.Snapshot `json:"state"`
	Step   int             `json:"step"`
	Draft  any             `json:"draft"`
	Fields []fieldView     `json:"fields"`
}

func (h *WizardHandler) view(id string, f wizard.Flow, step int) wizardView {
	v := wizardView{ID: id, Kind: f.Kind(), State: f.Controller().Snapshot(), Step: step, Draft: f.Draft(step)}
	_ = f.Edit(step, func(g *form.Group) error {
		for _, name := range g.Fields() {
			fv := fieldView{Name: name, List: g.IsList(name)}
			if fv.List {
				fv.Parts, _ = g.Parts(name)
				fv.Len, _ = g.ListLen(name)
			}
			v.Fields = append(v.Fields, fv)
		}
		return nil
	})
	return v
}

type createInput struct {
	Kind string `json:"kind" validate:"required,oneof=product accessory"`
}

func (h *WizardHandler) Create(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	var in createInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, validation.BindError(err, "Choose what to create."))
		return
	}
	if err := validation.Check(in, "Choose what to create."); err != nil {
		fail(c, err)
		return
	}
	if !h.client.Configured() {
		fail(c, apperr.UnconfiguredErr())
		return
	}

	f, err := NewFlow(in.Kind, h.client.WithToken(u.Token), h.images, h.log)
	if err != nil {
		fail(c, err)
		return
	}
	id := h.store.Put(u.ID, f)
	h.log.Info("wizard_started", zap.String("wizard_id", id), zap.String("kind", in.Kind), zap.String("user_id", u.ID))
	render.OK(c, http.StatusCreated, h.view(id, f, 0))
}

// flow loads the caller's flow and the step the request targets: the
// "step" query parameter, or the active step.
func (h *WizardHandler) flow(c *gin.Context) (string, wizard.Flow, int, bool) {
	u, _ := middleware.CurrentUser(c)
	id := c.Param("id")
	f, err := h.store.Get(id, u.ID)
	if err != nil {
		fail(c, err)
		return "", nil, 0, false
	}
	step := f.Controller().Active()
	if s := c.Query("step"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n >= f.Controller().Len() {
			fail(c, wizard.ErrNoSuchStep)
			return "", nil, 0, false
		}
		step = n
	}
	return id, f, step, true
}

func (h *WizardHandler) Get(c *gin.Context) {
	id, f, step, ok := h.flow(c)
	if !ok {
		return
	}
	render.OK(c, http.StatusOK, h.view(id, f, step))
}

// Delete cancels the wizard. An in-flight submission is aborted.
func (h *WizardHandler) Delete(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	if err := h.store.Delete(c.Param("id"), u.ID); err != nil {
		fail(c, err)
		return
	}
	render.Message(c, http.StatusOK, "Wizard closed.")
}

type fieldsInput struct {
	Fields map[string]string `json:"fields" validate:"required"`
}

// SetFields writes scalar fields. Valid fields are applied even when others
// in the same request fail.
func (h *WizardHandler) SetFields(c *gin.Context) {
	id, f, step, ok := h.flow(c)
	if !ok {
		return
	}
	var in fieldsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, validation.BindError(err, "Invalid field update."))
		return
	}

	bad := map[string]string{}
	_ = f.Edit(step, func(g *form.Group) error {
		for name, value := range in.Fields {
			if err := g.SetField(name, value); err != nil {
				bad[name] = err.Error()
			}
		}
		return nil
	})
	if len(bad) > 0 {
		fail(c, apperr.InvalidErr("Some fields could not be set.", bad))
		return
	}
	render.OK(c, http.StatusOK, h.view(id, f, step))
}

func (h *WizardHandler) AddItem(c *gin.Context) {
	id, f, step, ok := h.flow(c)
	if !ok {
		return
	}
	field := c.Param("field")
	if err := f.Edit(step, func(g *form.Group) error { return g.AddListItem(field) }); err != nil {
		fail(c, err)
		return
	}
	render.OK(c, http.StatusOK, h.view(id, f, step))
}

type itemInput struct {
	// Values maps part name to value; plain string lists use "".
	Values map[string]string `json:"values" validate:"required"`
}

func (h *WizardHandler) SetItem(c *gin.Context) {
	id, f, step, ok := h.flow(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		fail(c, form.ErrIndexRange)
		return
	}
	var in itemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, validation.BindError(err, "Invalid item update."))
		return
	}

	field := c.Param("field")
	bad := map[string]string{}
	_ = f.Edit(step, func(g *form.Group) error {
		for part, value := range in.Values {
			if err := g.SetListItem(field, index, part, value); err != nil {
				bad[fmt.Sprintf("%s[%d].%s", field, index, part)] = err.Error()
			}
		}
		return nil
	})
	if len(bad) > 0 {
		fail(c, apperr.InvalidErr("Some values could not be set.", bad))
		return
	}
	render.OK(c, http.StatusOK, h.view(id, f, step))
}

func (h *WizardHandler) RemoveItem(c *gin.Context) {
	id, f, step, ok := h.flow(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		fail(c, form.ErrIndexRange)
		return
	}
	field := c.Param("field")
	if err := f.Edit(step, func(g *form.Group) error { return g.RemoveListItem(field, index) }); err != nil {
		fail(c, err)
		return
	}
	render.OK(c, http.StatusOK, h.view(id, f, step))
}

// UploadImage stages a color image: multipart "image" plus the color
// "index".
func (h *WizardHandler) UploadImage(c *gin.Context) {
	id, f, step, ok := h.flow(c)
	if !ok {
		return
	}
	pw, ok := f.(*products.Wizard)
	if !ok {
		fail(c, apperr.InvalidErr("This wizard takes no images.", nil))
		return
	}
	index, err := strconv.Atoi(c.PostForm("index"))
	if err != nil {
		fail(c, apperr.InvalidErr("Missing color index.", map[string]string{"index": "must be a number"}))
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		fail(c, apperr.InvalidErr("Choose an image to upload.", map[string]string{"image": "required"}))
		return
	}
	if fh.Size > maxImageSize {
		fail(c, apperr.InvalidErr("Image is too large.", map[string]string{"image": "max 8 MB"}))
		return
	}
	file, err := fh.Open()
	if err != nil {
		fail(c, apperr.Wrap(err))
		return
	}
	defer file.Close()

	res, err := pw.StageImage(c.Request.Context(), index, file, storage.PutInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	})
	if err != nil {
		fail(c, err)
		return
	}
	render.OK(c, http.StatusCreated, gin.H{"image": res, "wizard": h.view(id, f, step)})
}

// Submit submits the active step. A second submit while the first is still
// in flight is refused with 409.
func (h *WizardHandler) Submit(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	id, f, _, ok := h.flow(c)
	if !ok {
		return
	}
	ctrl := f.Controller()

	step := ctrl.ActiveStep()
	if err := ctrl.Submit(c.Request.Context()); err != nil {
		h.log.Warn("wizard_step_failed",
			zap.String("wizard_id", id),
			zap.String("step", step.Name),
			zap.String("user_id", u.ID),
			zap.Error(err),
		)
		fail(c, err)
		return
	}
	h.log.Info("wizard_step_submitted", zap.String("wizard_id", id), zap.String("step", step.Name))

	if ctrl.Completed() {
		render.OK(c, http.StatusOK, wizardView{ID: id, Kind: f.Kind(), State: ctrl.Snapshot(), Step: ctrl.Active()})
		return
	}
	render.OK(c, http.StatusOK, h.view(id, f, ctrl.Active()))
}

// Back moves to the previous step; 409 while a submission is in flight.
func (h *WizardHandler) Back(c *gin.Context) {
	id, f, _, ok := h.flow(c)
	if !ok {
		return
	}
	if err := f.Controller().Retreat(); err != nil {
		fail(c, err)
		return
	}
	render.OK(c, http.StatusOK, h.view(id, f, f.Controller().Active()))
}
