package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const homeContent = `ML Playground

Train machine learning models on your own CSV datasets without writing
a line of code.

  Playground  upload a dataset, explore it, pick a model and train
  Models      predict with, download or delete your saved models
  Dashboard   aggregate stats over everything you trained
  Learn       a short primer on the concepts used here

Sign in (ctrl+l) and open the Playground to get started.`

const learnContent = `Learn

Problem types
  Classification predicts a category, like a flower species or spam
  versus not spam. Regression predicts a number, like a house price.
  The playground derives the problem type from the target column you
  pick: categorical targets mean classification, numeric targets mean
  regression, and numeric columns with few distinct values allow both.

Features and target
  Features are the input columns the model learns from. The target is
  the column it learns to predict. Leave out identifier columns; they
  carry no signal.

Train/test split
  Part of the data is held back from training and used to score the
  model. The test size setting controls that fraction.

Metrics
  Classification reports accuracy, precision, recall and F1, plus a
  confusion matrix of predicted versus actual classes. Regression
  reports R2 and the mean error metrics. Feature importance shows
  which inputs drove the predictions, when the algorithm exposes it.

Models
  Random forests and decision trees handle mixed data well and are a
  good default. Linear and logistic models are fast and easy to read.
  Support vector machines shine on small, clean datasets. K nearest
  neighbors needs no training but slows down on big data.`

// staticModel is a scrollable read-only screen.
type staticModel struct {
	vp      viewport.Model
	content string
}

func newStaticModel(content string) staticModel {
	vp := viewport.New(0, 0)
	vp.SetContent(content)
	return staticModel{vp: vp, content: content}
}

func (m *staticModel) setSize(width, height int) {
	m.vp.Width = width
	m.vp.Height = height
	m.vp.SetContent(m.content)
}

func (m *staticModel) updateKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return cmd
}

func (m *staticModel) view(width, height int) string {
	return fitLines(m.vp.View(), width, height)
}
