package desktop

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LeverageScope/internal/controller"
	"LeverageScope/internal/model"
)

func TestWindow_SliderDrivesController(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	ctrl := controller.New(model.DefaultParams())
	w, err := NewWindow(a, ctrl, 300, 200)
	require.NoError(t, err)

	assert.Equal(t, model.StateInitial, ctrl.State())
	require.NotNil(t, w.view.img.Image)
	assert.Equal(t, 300, w.view.img.Image.Bounds().Dx())
	assert.Equal(t, "2.00", w.slider.label.Text)

	w.slider.widget.OnChanged(4)
	assert.Equal(t, model.StateUpdated, ctrl.State())
	assert.Equal(t, 4.0, ctrl.Current().LR0)
	assert.Equal(t, "slider", ctrl.Current().Source)
	assert.Equal(t, "4.00", w.slider.label.Text)
}

func TestNewSlider_Range(t *testing.T) {
	test.NewApp()
	s := NewSlider(model.DefaultParams())
	assert.Equal(t, 1.0, s.widget.Min)
	assert.Equal(t, 10.0, s.widget.Max)
	assert.Equal(t, 2.0, s.widget.Value)
	assert.Equal(t, 0.01, s.widget.Step)
	assert.Equal(t, "slider", s.Name())
}
