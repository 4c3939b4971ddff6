package ml

import (
	"fmt"
	"math"

	"github.com/mikey/phishing-detector/internal/core"
)

// TreeNode is one node of a decision tree, stored in a flat array.
// Leaf nodes carry the additive contribution (already scaled by the
// learning rate when the artifact was exported); split nodes route on
// vector[Feature] <= Threshold.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Leaf      bool    `json:"leaf"`
}

// Tree is a single decision tree, rooted at node 0.
type Tree []TreeNode

// GBTClassifier evaluates a trained gradient-boosted tree ensemble:
// sigmoid(bias + sum of leaf values). Inference is branch-free of any
// randomness, so a fixed model and input always yield the same output.
type GBTClassifier struct {
	trees     []Tree
	bias      float64
	numInputs int
}

// NewGBTClassifier builds a classifier from a serialized ensemble.
// Every node's feature and child indices are validated up front so a
// corrupt artifact fails at load time, not mid-inference.
func NewGBTClassifier(trees []Tree, bias float64, numInputs int) (*GBTClassifier, error) {
	if numInputs <= 0 {
		return nil, fmt.Errorf("classifier: invalid input width %d", numInputs)
	}
	for ti, tree := range trees {
		if len(tree) == 0 {
			return nil, fmt.Errorf("classifier: tree %d is empty", ti)
		}
		for ni, node := range tree {
			if node.Leaf {
				continue
			}
			if node.Feature < 0 || node.Feature >= numInputs {
				return nil, fmt.Errorf("classifier: tree %d node %d splits on feature %d, model width is %d", ti, ni, node.Feature, numInputs)
			}
			if node.Left <= ni || node.Left >= len(tree) || node.Right <= ni || node.Right >= len(tree) {
				return nil, fmt.Errorf("classifier: tree %d node %d has invalid children %d/%d", ti, ni, node.Left, node.Right)
			}
		}
	}
	return &GBTClassifier{trees: trees, bias: bias, numInputs: numInputs}, nil
}

// NumInputs reports the input width the model was trained on.
func (c *GBTClassifier) NumInputs() int {
	if c == nil {
		return 0
	}
	return c.numInputs
}

// PredictProba returns the probability of the phishing class for a
// concatenated feature vector of width NumInputs.
func (c *GBTClassifier) PredictProba(vector []float64) (float64, error) {
	if c == nil || c.trees == nil {
		return 0, core.ErrModelNotLoaded
	}
	if len(vector) != c.numInputs {
		return 0, &core.InferenceError{Got: len(vector), Want: c.numInputs}
	}

	score := c.bias
	for _, tree := range c.trees {
		score += evalTree(tree, vector)
	}
	return sigmoid(score), nil
}

func evalTree(tree Tree, vector []float64) float64 {
	i := 0
	for !tree[i].Leaf {
		if vector[tree[i].Feature] <= tree[i].Threshold {
			i = tree[i].Left
		} else {
			i = tree[i].Right
		}
	}
	return tree[i].Value
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
