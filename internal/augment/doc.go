// Package augment provides the optional language-model augmentation
// collaborator behind a narrow interface. The rule-based recommendation
// core has no awareness of it; callers that use it fall back to the core
// deterministically when augmentation fails.
package augment
