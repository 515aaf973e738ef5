package k8s

import (
	corev1 "k8s.io/api/core/v1"
)

const activePodsSelector = "status.phase!=" + string(corev1.PodSucceeded) + ",status.phase!=" + string(corev1.PodFailed)

// isActive repeats the field selector check for clients that ignore it.
func isActive(p *corev1.Pod) bool {
	return p.Status.Phase != corev1.PodSucceeded && p.Status.Phase != corev1.PodFailed
}

// podRequests is the effective request of a pod: the sum of its containers,
// raised to the largest init container, plus pod overhead.
func podRequests(p *corev1.Pod) corev1.ResourceList {
	reqs := corev1.ResourceList{}
	for _, c := range p.Spec.Containers {
		addResourceList(reqs, c.Resources.Requests)
	}
	for _, c := range p.Spec.InitContainers {
		maxResourceList(reqs, c.Resources.Requests)
	}
	addResourceList(reqs, p.Spec.Overhead)
	return reqs
}

func sumPodRequests(pods []corev1.Pod) corev1.ResourceList {
	total := corev1.ResourceList{}
	for i := range pods {
		addResourceList(total, podRequests(&pods[i]))
	}
	return total
}

func addResourceList(list, add corev1.ResourceList) {
	for name, q := range add {
		if cur, ok := list[name]; ok {
			cur.Add(q)
			list[name] = cur
		} else {
			list[name] = q.DeepCopy()
		}
	}
}

func maxResourceList(list, other corev1.ResourceList) {
	for name, q := range other {
		if cur, ok := list[name]; !ok || q.Cmp(cur) > 0 {
			list[name] = q.DeepCopy()
		}
	}
}
