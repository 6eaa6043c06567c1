package chromebrowser

// waitImagesScript settles every <img> under the scope element (or the whole
// document when the scope is empty). Each image resolves exactly once, on load
// or on error, and the promises are joined with Promise.all.
const waitImagesScript = `(async (scope) => {
	const root = scope ? document.querySelector(scope) : document;
	if (!root) {
		return {total: 0, loaded: 0, failed: 0};
	}
	const images = Array.from(root.querySelectorAll('img'));
	const settled = await Promise.all(images.map((img) => new Promise((resolve) => {
		if (img.complete) {
			resolve(img.naturalWidth > 0);
			return;
		}
		img.addEventListener('load', () => resolve(true), {once: true});
		img.addEventListener('error', () => resolve(false), {once: true});
	})));
	const loaded = settled.filter(Boolean).length;
	return {total: images.length, loaded: loaded, failed: images.length - loaded};
})(%s)`

// elementBoxScript reads the page-space bounds of the first match.
// It returns {found: false} instead of null so the result always decodes.
const elementBoxScript = `((selector) => {
	const el = document.querySelector(selector);
	if (!el) {
		return {found: false, x: 0, y: 0, width: 0, height: 0};
	}
	const r = el.getBoundingClientRect();
	return {found: true, x: r.left + window.scrollX, y: r.top + window.scrollY, width: r.width, height: r.height};
})(%s)`
